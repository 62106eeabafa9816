package peekviz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peekviz/peekviz/entity"
)

func startRemote(t *testing.T) (*RemoteSession, *Manager) {
	t.Helper()
	sess, err := ListenRemote("127.0.0.1:0", WithRemoteLogger(quietLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return sess, NewManager(sess, WithCadence(0), WithLogger(quietLogger()))
}

func dialViewer(t *testing.T, ctx context.Context, addr string) *RemoteViewer {
	t.Helper()
	viewer, err := ConnectRemote(ctx, addr, WithViewerLogger(quietLogger()))
	require.NoError(t, err)
	go viewer.Run(ctx)
	t.Cleanup(func() { viewer.Close() })
	return viewer
}

func TestRemoteSceneReachesViewer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, m := startRemote(t)
	viewer := dialViewer(t, ctx, sess.Addr())

	w := m.AddWidget3("scene")
	w.PlaceEntity("cube", entity.ColoredCube(0.5))
	m.AddBool("spin", true)
	require.NoError(t, m.Sync(ctx))

	require.Eventually(t, func() bool {
		snap, err := viewer.Snapshot()
		return err == nil && len(snap.Widgets) == 1 && len(snap.Components) == 1
	}, 2*time.Second, 10*time.Millisecond)

	snap, err := viewer.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "scene", snap.Widgets[0].Label)
	require.Len(t, snap.Widgets[0].Entities, 1)
	assert.NotNil(t, snap.Widgets[0].Entities[0].Entity.Mesh)
}

func TestRemoteLateJoinerGetsReplay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, m := startRemote(t)

	m.AddWidget3("scene")
	m.AddRangedFloat("scale", 0.5, 0, 1)
	require.NoError(t, m.Sync(ctx))

	// Connect after the scene was built.
	viewer := dialViewer(t, ctx, sess.Addr())

	require.Eventually(t, func() bool {
		snap, err := viewer.Snapshot()
		return err == nil && len(snap.Widgets) == 1 && len(snap.Components) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRemoteControlEventsReachManager(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, m := startRemote(t)
	viewer := dialViewer(t, ctx, sess.Addr())

	r := m.AddRangedFloat("scale", 0.5, 0, 1)
	require.NoError(t, m.Sync(ctx))

	require.Eventually(t, func() bool {
		snap, err := viewer.Snapshot()
		return err == nil && len(snap.Components) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, viewer.SetRanged("scale", 0.9))

	require.Eventually(t, func() bool {
		if err := m.Sync(ctx); err != nil {
			return false
		}
		return r.Value() == 0.9
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRemoteViewerURLNormalization(t *testing.T) {
	for addr, want := range map[string]string{
		"localhost:9001":           "ws://localhost:9001/ws",
		"ws://host:9001":           "ws://host:9001/ws",
		"http://host:9001":         "ws://host:9001/ws",
		"https://host:9001/custom": "wss://host:9001/custom",
	} {
		got, err := viewerURL(addr)
		require.NoError(t, err, addr)
		assert.Equal(t, want, got, addr)
	}

	_, err := viewerURL("ftp://host")
	assert.Error(t, err)
}

func TestRemoteSessionCloseIdempotent(t *testing.T) {
	sess, err := ListenRemote("127.0.0.1:0", WithRemoteLogger(quietLogger()))
	require.NoError(t, err)
	require.NoError(t, sess.Close())
	require.NoError(t, sess.Close())
}
