package peekviz

import (
	"context"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/ausocean/utils/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logging.Logger {
	return logging.New(logging.Fatal, io.Discard, true)
}

// recordSession captures sent batches and feeds canned events back.
type recordSession struct {
	batches [][]Message
	events  []Message
}

func (s *recordSession) Send(b []Message) error {
	s.batches = append(s.batches, b)
	return nil
}

func (s *recordSession) Events() ([]Message, error) {
	e := s.events
	s.events = nil
	return e, nil
}

func (s *recordSession) Close() error { return nil }

func testManager(t *testing.T) (*Manager, *recordSession) {
	t.Helper()
	sess := &recordSession{}
	return NewManager(sess, WithCadence(0), WithLogger(quietLogger())), sess
}

func TestSyncFlushesPendingOnce(t *testing.T) {
	m, sess := testManager(t)
	ctx := context.Background()

	m.AddWidget3("scene")
	m.AddBool("spin", true)
	require.NoError(t, m.Sync(ctx))
	require.Len(t, sess.batches, 1)
	assert.Len(t, sess.batches[0], 2)

	// Nothing new to send on an idle cycle.
	require.NoError(t, m.Sync(ctx))
	assert.Len(t, sess.batches, 1)
}

func TestQueueDropsInvalidMutation(t *testing.T) {
	m, sess := testManager(t)

	// Initial value is not among the options.
	m.AddEnum("axis", "w", "x", "y", "z")
	require.NoError(t, m.Sync(context.Background()))
	assert.Empty(t, sess.batches)
}

func TestSyncAppliesEvents(t *testing.T) {
	m, sess := testManager(t)
	ctx := context.Background()

	r := m.AddRangedFloat("scale", 0.5, 0, 1)
	require.NoError(t, m.Sync(ctx))

	sess.events = []Message{SetRangedNumber{Label: "scale", Value: 0.8}}
	require.NoError(t, m.Sync(ctx))
	assert.Equal(t, 0.8, r.Value())
}

func TestSyncSurvivesBadEvents(t *testing.T) {
	m, sess := testManager(t)
	ctx := context.Background()

	b := m.AddBool("spin", false)
	sess.events = []Message{
		SetBool{Label: "ghost", Value: true},
		SetBool{Label: "spin", Value: true},
	}
	require.NoError(t, m.Sync(ctx))
	assert.True(t, b.Value())
}

func TestSyncHonorsContext(t *testing.T) {
	m, _ := testManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, m.Sync(ctx), context.Canceled)
}

func TestBoolNewValueOncePerChange(t *testing.T) {
	view := NewView(quietLogger())
	m := NewManager(&localSession{view: view}, WithCadence(0), WithLogger(quietLogger()))
	ctx := context.Background()

	b := m.AddBool("spin", false)
	require.NoError(t, m.Sync(ctx))

	require.NoError(t, view.SetBool("spin", true))
	require.NoError(t, m.Sync(ctx))

	v, changed := b.NewValue()
	assert.True(t, v)
	assert.True(t, changed)

	v, changed = b.NewValue()
	assert.True(t, v)
	assert.False(t, changed)
}

func TestButtonPressConsumed(t *testing.T) {
	view := NewView(quietLogger())
	m := NewManager(&localSession{view: view}, WithCadence(0), WithLogger(quietLogger()))
	ctx := context.Background()

	btn := m.AddButton("reset")
	require.NoError(t, m.Sync(ctx))
	assert.False(t, btn.WasPressed())

	require.NoError(t, view.PressButton("reset"))
	require.NoError(t, m.Sync(ctx))
	assert.True(t, btn.WasPressed())
	assert.False(t, btn.WasPressed())
}

func TestEnumNewValue(t *testing.T) {
	view := NewView(quietLogger())
	m := NewManager(&localSession{view: view}, WithCadence(0), WithLogger(quietLogger()))
	ctx := context.Background()

	e := m.AddEnum("axis", "y", "x", "y", "z")
	require.NoError(t, m.Sync(ctx))

	require.NoError(t, view.SetEnum("axis", "z"))
	require.NoError(t, m.Sync(ctx))

	v, changed := e.NewValue()
	assert.Equal(t, "z", v)
	assert.True(t, changed)
	_, changed = e.NewValue()
	assert.False(t, changed)
}

func TestRangedIntClampsInitialValue(t *testing.T) {
	m, _ := testManager(t)
	r := m.AddRangedInt("n", 10, 0, 5)
	assert.Equal(t, 5, r.Value())
}

func TestNumberSet(t *testing.T) {
	view := NewView(quietLogger())
	m := NewManager(&localSession{view: view}, WithCadence(0), WithLogger(quietLogger()))
	ctx := context.Background()

	n := m.AddNumber("frames", 0)
	n.Set(42)
	require.NoError(t, m.Sync(ctx))

	snap, err := view.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Components, 1)
	assert.Equal(t, 42.0, snap.Components[0].Number)
}

func TestRemoveControl(t *testing.T) {
	view := NewView(quietLogger())
	m := NewManager(&localSession{view: view}, WithCadence(0), WithLogger(quietLogger()))
	ctx := context.Background()

	b := m.AddBool("spin", true)
	require.NoError(t, m.Sync(ctx))
	m.RemoveControl("spin")
	require.NoError(t, m.Sync(ctx))

	snap, err := view.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Components)
	// The handle keeps reporting the last seen value.
	assert.True(t, b.Value())
}

func TestImageWidgetConversion(t *testing.T) {
	view := NewView(quietLogger())
	m := NewManager(&localSession{view: view}, WithCadence(0), WithLogger(quietLogger()))
	ctx := context.Background()

	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	w := m.AddImageWidget("cam", src)
	require.NoError(t, m.Sync(ctx))

	snap, err := view.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Widgets, 1)
	require.NotNil(t, snap.Widgets[0].Image)
	assert.Equal(t, 2, snap.Widgets[0].Image.Width)
	assert.Equal(t, byte(255), snap.Widgets[0].Image.Pix[0])

	w.SetImage(image.NewRGBA(image.Rect(0, 0, 4, 4)))
	require.NoError(t, m.Sync(ctx))
	snap, err = view.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Widgets[0].Image.Width)
}
