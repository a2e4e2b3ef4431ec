// Package admin serves the dashboard page, the leaderboard, and the live
// stats stream.
package admin

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	negotiationService "github.com/negochallenge/backend/internal/service/negotiation"
	"github.com/negochallenge/backend/pkg/utils"
)

// Handler serves the admin routes.
type Handler struct {
	svc *negotiationService.Service
}

// New creates the admin handler.
func New(svc *negotiationService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the API routes under /api.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/leaderboard", h.handleLeaderboard)
	r.Get("/admin/stats/stream", h.handleStatsStream)
}

// RegisterDashboard mounts the HTML dashboard at the root router.
func (h *Handler) RegisterDashboard(r chi.Router) {
	r.Get("/admin", h.handleDashboard)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Leaderboard(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, board)
}

// handleStatsStream pushes fresh aggregates every few seconds so the
// dashboard updates without polling.
func (h *Handler) handleStatsStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	ctx := r.Context()
	log.Printf("[sse] opening stats stream")

	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "status",
		"message": "stream established",
	})

	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	send := func() {
		stats, err := h.svc.Stats(ctx)
		if err != nil {
			log.Printf("[sse] stats failed: %v", err)
			return
		}
		utils.SendSSEEvent(w, flusher, "stats", stats)
	}

	send()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[sse] closing stats stream")
			return
		case <-ticker.C:
			send()
		}
	}
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(dashboardHTML)); err != nil {
		log.Printf("[admin] write dashboard failed: %v", err)
	}
}

const dashboardHTML = `<!DOCTYPE html>
<html>
<head>
    <title>Nego Challenge Admin</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif;
            background: #f5f5f5;
            padding: 20px;
        }
        .container { max-width: 1400px; margin: 0 auto; }
        h1 { color: #333; margin-bottom: 30px; }
        .stats {
            display: grid;
            grid-template-columns: repeat(auto-fit, minmax(200px, 1fr));
            gap: 20px;
            margin-bottom: 30px;
        }
        .stat-card {
            background: white;
            padding: 20px;
            border-radius: 12px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
        }
        .stat-value {
            font-size: 32px;
            font-weight: bold;
            color: #6366f1;
            margin-bottom: 5px;
        }
        .stat-label { color: #666; font-size: 14px; }
        .card {
            background: white;
            border-radius: 12px;
            padding: 20px;
            margin-bottom: 20px;
            box-shadow: 0 2px 8px rgba(0,0,0,0.1);
        }
        .card h3 { margin-bottom: 15px; color: #333; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 12px; text-align: left; border-bottom: 1px solid #eee; }
        th { background: #fafafa; color: #666; font-size: 13px; text-transform: uppercase; }
        .badge { padding: 4px 10px; border-radius: 12px; font-size: 12px; }
        .badge.closed { background: #dcfce7; color: #166534; }
        .badge.open { background: #fef9c3; color: #854d0e; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Nego Challenge Admin</h1>
        <div class="stats">
            <div class="stat-card"><div class="stat-value" id="total">-</div><div class="stat-label">Total Sessions</div></div>
            <div class="stat-card"><div class="stat-value" id="closed">-</div><div class="stat-label">Closed Deals</div></div>
            <div class="stat-card"><div class="stat-value" id="rate">-</div><div class="stat-label">Conversion Rate</div></div>
            <div class="stat-card"><div class="stat-value" id="avg">-</div><div class="stat-label">Avg Final Price</div></div>
        </div>
        <div class="card">
            <h3>Sessions</h3>
            <table>
                <thead><tr><th>Session</th><th>Product</th><th>Current</th><th>Final</th><th>Status</th><th>Messages</th><th>Started</th></tr></thead>
                <tbody id="sessions"></tbody>
            </table>
        </div>
        <div class="card">
            <h3>Top Negotiators</h3>
            <table>
                <thead><tr><th>Session</th><th>Final Price</th><th>Discount</th><th>Share Code</th></tr></thead>
                <tbody id="negotiators"></tbody>
            </table>
        </div>
    </div>
    <script>
        const fmt = (n) => typeof n === 'number' ? n.toFixed(0) + ' GHS' : '-';

        const source = new EventSource('/api/admin/stats/stream');
        source.addEventListener('stats', (e) => {
            const s = JSON.parse(e.data);
            document.getElementById('total').textContent = s.total_sessions;
            document.getElementById('closed').textContent = s.closed_deals;
            document.getElementById('rate').textContent = s.conversion_rate;
            document.getElementById('avg').textContent = fmt(s.average_final_price);
        });

        async function refresh() {
            const res = await fetch('/api/sessions/all');
            const data = await res.json();
            document.getElementById('sessions').innerHTML = data.sessions.map(s =>
                '<tr><td>' + s.session_id.slice(0, 8) + '</td><td>' + s.product_name +
                '</td><td>' + fmt(s.current_price) + '</td><td>' + (s.final_price ? fmt(s.final_price) : '-') +
                '</td><td><span class="badge ' + (s.deal_closed ? 'closed">Closed' : 'open">Open') +
                '</span></td><td>' + s.message_count + '</td><td>' + new Date(s.created_at).toLocaleString() + '</td></tr>'
            ).join('');

            const lb = await (await fetch('/api/leaderboard')).json();
            document.getElementById('negotiators').innerHTML = (lb.top_negotiators || []).map(n =>
                '<tr><td>' + n.session_id + '</td><td>' + fmt(n.final_price) +
                '</td><td>' + n.discount_percentage.toFixed(1) + '%</td><td>' + n.share_code + '</td></tr>'
            ).join('');
        }

        refresh();
        setInterval(refresh, 15000);
    </script>
</body>
</html>`
