// Package chart renders the production and downtime trend attached to the
// today's-production reply.
package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"go.uber.org/zap"

	"factory-chatbot-backend/config"
	"factory-chatbot-backend/internal/store"
)

const dataURIPrefix = "data:image/png;base64,"

// Generator turns daily totals into an embeddable PNG data URI.
// Payloads are cached by the data they were drawn from.
type Generator struct {
	width  int
	height int
	cache  *cache.Cache
	ttl    time.Duration
	log    *zap.Logger
}

// NewGenerator creates a generator sized and cached per the chatbot configuration.
func NewGenerator(cfg config.ChatbotConfig, log *zap.Logger) *Generator {
	return &Generator{
		width:  cfg.ChartWidth,
		height: cfg.ChartHeight,
		cache:  cache.New(cfg.ChartCacheTTL, 2*cfg.ChartCacheTTL),
		ttl:    cfg.ChartCacheTTL,
		log:    log.Named("chart"),
	}
}

// Render draws totals, which must be ordered oldest first. It reports false
// when there is nothing to draw or drawing failed; it never panics.
func (g *Generator) Render(totals []store.DailyTotal) (payload string, ok bool) {
	if len(totals) == 0 {
		return "", false
	}

	key := fingerprint(totals)
	if cached, found := g.cache.Get(key); found {
		return cached.(string), true
	}

	defer func() {
		if r := recover(); r != nil {
			g.log.Error("chart rendering panicked", zap.Any("panic", r))
			payload, ok = "", false
		}
	}()

	png, err := g.draw(totals)
	if err != nil {
		g.log.Error("chart rendering failed", zap.Error(err))
		return "", false
	}

	payload = dataURIPrefix + base64.StdEncoding.EncodeToString(png)
	g.cache.Set(key, payload, g.ttl)
	return payload, true
}

func (g *Generator) draw(totals []store.DailyTotal) ([]byte, error) {
	n := len(totals)
	xs := make([]float64, n)
	output := make([]float64, n)
	downtime := make([]float64, n)
	ticks := make([]gochart.Tick, 0, n+2)
	ticks = append(ticks, gochart.Tick{Value: -0.5})
	var maxOutput, maxDowntime float64
	for i, t := range totals {
		xs[i] = float64(i)
		output[i] = float64(t.TotalOutput)
		downtime[i] = float64(t.TotalDowntime)
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: t.Date.UTC().Format("01-02")})
		maxOutput = max(maxOutput, output[i])
		maxDowntime = max(maxDowntime, downtime[i])
	}
	// Ticks override the x range, so the unlabelled edge ticks keep a single day drawable.
	ticks = append(ticks, gochart.Tick{Value: float64(n) - 0.5})

	graph := gochart.Chart{
		Title:  fmt.Sprintf("Production and Downtime Trend (Last %d Days)", n),
		Width:  g.width,
		Height: g.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:  "Date",
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
		},
		YAxis: gochart.YAxis{
			Name:  "Output Units",
			Range: &gochart.ContinuousRange{Min: 0, Max: headroom(maxOutput)},
		},
		YAxisSecondary: gochart.YAxis{
			Name:  "Downtime Minutes",
			Range: &gochart.ContinuousRange{Min: 0, Max: headroom(maxDowntime)},
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    "Output Units",
				XValues: xs,
				YValues: output,
				Style: gochart.Style{
					StrokeColor: drawing.ColorBlue,
					StrokeWidth: 2,
					DotColor:    drawing.ColorBlue,
					DotWidth:    4,
				},
			},
			gochart.ContinuousSeries{
				Name:    "Downtime Minutes",
				YAxis:   gochart.YAxisSecondary,
				XValues: xs,
				YValues: downtime,
				Style: gochart.Style{
					StrokeColor: drawing.ColorRed,
					StrokeWidth: 2,
					DotColor:    drawing.ColorRed,
					DotWidth:    4,
				},
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func headroom(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v * 1.1
}

func fingerprint(totals []store.DailyTotal) string {
	var b strings.Builder
	for _, t := range totals {
		fmt.Fprintf(&b, "%s:%d:%d;", t.Date.UTC().Format("2006-01-02"), t.TotalOutput, t.TotalDowntime)
	}
	return b.String()
}

// Decode returns the PNG bytes of a payload produced by Render.
func Decode(payload string) ([]byte, error) {
	data, ok := strings.CutPrefix(payload, dataURIPrefix)
	if !ok {
		return nil, fmt.Errorf("chart payload is not a PNG data URI")
	}
	return base64.StdEncoding.DecodeString(data)
}
