package analysis

import (
	"bytes"
	"fmt"
	"time"

	"github.com/swiftgrasp/swiftgrasp/internal/models"

	"github.com/go-pdf/fpdf"
)

// FigureContentType is the MIME type of rendered analysis figures.
const FigureContentType = "application/pdf"

// plot area in page millimeters
const (
	plotLeft   = 15.0
	plotTop    = 40.0
	plotWidth  = 260.0
	plotHeight = 140.0
)

// renderFigure draws the observed close series against the model's
// counterfactual, with the anchor date marked. Landscape A4, one page.
func renderFigure(bars []models.PriceBar, counterfactual []float64, anchorIndex int, ticker string, anchor time.Time) ([]byte, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars to render")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s close price around %s", ticker, anchor.Format("2006-01-02")), "", 1, "C", false, 0, "")

	observed := make([]float64, len(bars))
	for i, bar := range bars {
		observed[i] = bar.Close
	}

	minV, maxV := observed[0], observed[0]
	for _, v := range observed {
		minV, maxV = minFloat(minV, v), maxFloat(maxV, v)
	}
	for _, v := range counterfactual {
		minV, maxV = minFloat(minV, v), maxFloat(maxV, v)
	}
	if maxV == minV {
		maxV = minV + 1
	}

	toX := func(i int) float64 {
		if len(bars) == 1 {
			return plotLeft
		}
		return plotLeft + plotWidth*float64(i)/float64(len(bars)-1)
	}
	toY := func(v float64) float64 {
		return plotTop + plotHeight*(1-(v-minV)/(maxV-minV))
	}

	// axes
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.3)
	pdf.Line(plotLeft, plotTop, plotLeft, plotTop+plotHeight)
	pdf.Line(plotLeft, plotTop+plotHeight, plotLeft+plotWidth, plotTop+plotHeight)

	// observed series
	pdf.SetDrawColor(0, 70, 160)
	pdf.SetLineWidth(0.5)
	for i := 1; i < len(observed); i++ {
		pdf.Line(toX(i-1), toY(observed[i-1]), toX(i), toY(observed[i]))
	}

	// counterfactual over the post window
	pdf.SetDrawColor(200, 80, 0)
	for i := 1; i < len(counterfactual); i++ {
		pdf.Line(toX(anchorIndex+i-1), toY(counterfactual[i-1]), toX(anchorIndex+i), toY(counterfactual[i]))
	}

	// anchor marker
	if anchorIndex >= 0 && anchorIndex < len(bars) {
		pdf.SetDrawColor(120, 120, 120)
		pdf.SetLineWidth(0.3)
		pdf.SetDashPattern([]float64{2, 2}, 0)
		pdf.Line(toX(anchorIndex), plotTop, toX(anchorIndex), plotTop+plotHeight)
		pdf.SetDashPattern([]float64{}, 0)
	}

	// legend and value range
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 70, 160)
	pdf.Text(plotLeft, plotTop-6, "observed")
	pdf.SetTextColor(200, 80, 0)
	pdf.Text(plotLeft+30, plotTop-6, "counterfactual")
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(plotLeft, plotTop+plotHeight+8,
		fmt.Sprintf("%s to %s, range %.2f - %.2f",
			bars[0].Date.Format("2006-01-02"),
			bars[len(bars)-1].Date.Format("2006-01-02"),
			minV, maxV))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render figure: %w", err)
	}
	return buf.Bytes(), nil
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
