package product

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// Product describes the single item on sale and its pricing bands. The
// per-session minimum price is drawn from [MinimumLow, MinimumHigh].
type Product struct {
	Name          string   `yaml:"name" json:"name"`
	StartingPrice float64  `yaml:"startingPrice" json:"startingPrice"`
	MinimumLow    float64  `yaml:"minimumLow" json:"minimumLow"`
	MinimumHigh   float64  `yaml:"minimumHigh" json:"minimumHigh"`
	CostPrice     float64  `yaml:"costPrice" json:"costPrice"`
	Features      []string `yaml:"features" json:"features"`
	OpeningLines  []string `yaml:"openingLines" json:"openingLines"`
}

// Default returns the built-in catalog entry used when no config file is
// supplied.
func Default() Product {
	return Product{
		Name:          "Premium Apple Watch",
		StartingPrice: 450,
		MinimumLow:    350,
		MinimumHigh:   400,
		CostPrice:     350,
		Features: []string{
			"Original Apple Watch",
			"Excellent condition",
			"Full warranty coverage",
			"All accessories included",
			"Latest software updates",
		},
		OpeningLines: defaultOpeningLines(),
	}
}

// Load reads a product definition from a YAML file. Fields left empty in the
// file keep the built-in defaults.
func Load(path string) (Product, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Product{}, fmt.Errorf("read %s: %w", path, err)
	}

	p := Default()
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Product{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if p.Name == "" || p.StartingPrice <= 0 {
		return Product{}, fmt.Errorf("product config %s: name and startingPrice are required", path)
	}
	if p.MinimumHigh < p.MinimumLow {
		return Product{}, fmt.Errorf("product config %s: minimumHigh below minimumLow", path)
	}
	return p, nil
}

// RandomMinimum draws the session-specific price floor.
func (p Product) RandomMinimum() float64 {
	if p.MinimumHigh <= p.MinimumLow {
		return p.MinimumLow
	}
	return p.MinimumLow + float64(rand.Intn(int(p.MinimumHigh-p.MinimumLow)+1))
}

// OpeningLine picks a random greeting for a fresh session.
func (p Product) OpeningLine() string {
	if len(p.OpeningLines) == 0 {
		return fmt.Sprintf("Welcome! This %s is %.0f GHS. Ready to make an offer?", p.Name, p.StartingPrice)
	}
	return p.OpeningLines[rand.Intn(len(p.OpeningLines))]
}

func defaultOpeningLines() []string {
	return []string{
		"Welcome! I'm Bra Alex. See this Premium Apple Watch? Original, top condition, everything included. The price is 450 GHS. Should I wrap it for you? 😉",
		"Hey there! Bra Alex here. I was just checking this Premium Apple Watch - it's the original one, 450 GHS. Ready to make an offer?",
		"Perfect timing! I'm Bra Alex, and this Apple Watch is moving fast. 450 GHS, full accessories. I have another buyer asking, but you're here first. Interested?",
		"Welcome! They call me Bra Alex, the best negotiator around. This Apple Watch is 450 GHS, but I have a feeling you're going to try and outsmart me. Let's see what you've got! 😄",
		"Bra Alex here. Simple deal: one Premium Apple Watch, original, excellent condition, 450 GHS. What can you offer?",
		"Greetings! I'm Bra Alex. Before you ask - yes, original. Yes, full warranty. Yes, all accessories included. My starting price is 450 GHS. Ready to negotiate?",
		"You know, someone tried to sell me a fake one last week. But this? This is the real deal. I'm Bra Alex, 450 GHS for this Premium Apple Watch. Think you can convince me otherwise? 😂",
		"Welcome! I see you have good taste. This Premium Apple Watch will look amazing. My price is 450 GHS. So, MoMo or card?",
		"Bra Alex at your service. Quick question: are you looking for the best quality Apple Watch in town? Because you just found it. 450 GHS - let's make a deal.",
		"Hey! Bra Alex here. This Premium Apple Watch is 450 GHS, comes with everything. Let's find a price that works for both of us!",
	}
}
