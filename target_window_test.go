package peekviz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekviz/peekviz/entity"
	"github.com/peekviz/peekviz/pose"
)

func TestLayoutWidgetsFillsScreen(t *testing.T) {
	widgets := []WidgetSnapshot{
		{Label: "a", Kind: widgetKindScene3},
		{Label: "b", Kind: widgetKindScene3},
		{Label: "c", Kind: widgetKindScene3},
	}
	cells := layoutWidgets(widgets, 900, 300)
	require.Len(t, cells, 3)

	// Every cell stays on screen.
	for _, c := range cells {
		assert.GreaterOrEqual(t, c.x, float32(0))
		assert.GreaterOrEqual(t, c.y, float32(0))
		assert.LessOrEqual(t, c.x+c.w, float32(900)+0.5)
		assert.LessOrEqual(t, c.y+c.h, float32(300)+0.5)
	}

	// Square widgets on a wide screen lay out in a single row.
	assert.Equal(t, float32(0), cells[0].y)
	assert.Equal(t, cells[0].y, cells[1].y)
	assert.Equal(t, cells[1].y, cells[2].y)
}

func TestLayoutWidgetsEmpty(t *testing.T) {
	assert.Nil(t, layoutWidgets(nil, 800, 600))
}

func TestLayoutWidgetsMedianAspect(t *testing.T) {
	wide := &ImageRGBA{Width: 400, Height: 100, Pix: make([]byte, 4*400*100)}
	widgets := []WidgetSnapshot{
		{Label: "a", Kind: widgetKindImage, Image: wide},
		{Label: "b", Kind: widgetKindImage, Image: wide},
	}
	cells := layoutWidgets(widgets, 800, 800)
	require.Len(t, cells, 2)
	// Wide panels stack vertically rather than squeezing side by side.
	assert.Equal(t, cells[0].x, cells[1].x)
	assert.Less(t, cells[0].y, cells[1].y)
}

func TestProjectRejectsBehindCamera(t *testing.T) {
	view := pose.LookAt(pose.Vec3(0, 0, 3), pose.Vec3(0, 0, 0), pose.Vec3(0, 1, 0))
	proj := pose.Perspective(1, 1, 0.1, 100)
	mvp := proj.Mul(view)
	c := cell{x: 0, y: 0, w: 100, h: 100}

	x, y, ok := project(pose.Vec3(0, 0, 0), mvp, c)
	require.True(t, ok)
	assert.InDelta(t, 50, x, 1)
	assert.InDelta(t, 50, y, 1)

	_, _, ok = project(pose.Vec3(0, 0, 5), mvp, c)
	assert.False(t, ok)
}

func TestToRGBAClamps(t *testing.T) {
	c := toRGBA(entity.RGBA(2, -1, 0.5, 1))
	assert.Equal(t, uint8(255), c.R)
	assert.Equal(t, uint8(0), c.G)
	assert.Equal(t, uint8(127), c.B)
	assert.Equal(t, uint8(255), c.A)
}
