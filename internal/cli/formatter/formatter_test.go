package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zenalexa/autoeval/internal/domain"
)

func TestRenderProgress(t *testing.T) {
	bar := RenderProgress(0.5, 10)
	assert.Contains(t, bar, " 50%")
	assert.Equal(t, 5, strings.Count(bar, filledBlock))
	assert.Equal(t, 5, strings.Count(bar, emptyBlock))
}

func TestRenderProgress_Clamps(t *testing.T) {
	assert.Contains(t, RenderProgress(-0.5, 10), "  0%")
	assert.Contains(t, RenderProgress(1.5, 10), "100%")

	full := RenderProgress(1, 10)
	assert.Equal(t, 10, strings.Count(full, filledBlock))
	assert.Equal(t, 0, strings.Count(full, emptyBlock))
}

func TestStatusIndicator(t *testing.T) {
	assert.Contains(t, StatusIndicator(domain.ItemSucceeded), "✓")
	assert.Contains(t, StatusIndicator(domain.ItemSkipped), "−")
	assert.Contains(t, StatusIndicator(domain.ItemFailed), "✗")
	assert.Contains(t, StatusIndicator(domain.ItemStatus("other")), "?")
}

func TestHeader(t *testing.T) {
	h := Header("past runs")
	assert.Contains(t, h, "PAST RUNS")
	assert.Contains(t, h, "─")
}
