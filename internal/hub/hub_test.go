package hub

import (
	"context"
	"testing"
	"time"

	"github.com/DoyleJ11/sniper-keeper/internal/engine"
	"github.com/DoyleJ11/sniper-keeper/internal/lobby"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_Create_Get_SamePointer(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx)
	reply := make(chan *lobby.Lobby, 1)

	h.Inbox() <- CreateLobby{Code: "ZED123", Game: engine.NewDefaultGame(), Reply: reply}
	lb1 := <-reply

	h.Inbox() <- GetLobby{Code: "ZED123", Reply: reply}
	lb2 := <-reply

	if lb1 == nil || lb2 == nil || lb1 != lb2 {
		t.Fatalf("expected same lobby pointer")
	}
}

func TestHub_Ensure_DoesNotReplaceExisting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(ctx)

	first, err := h.Ensure(ctx, "ABC123", nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	_, err = first.Do(ctx, engine.Command{Type: engine.CmdStartGame})
	require.NoError(t, err)

	second, err := h.Ensure(ctx, "ABC123", engine.NewDefaultGame())
	require.NoError(t, err)
	assert.Same(t, first, second)

	view, err := second.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, engine.PhaseInProgress, view.State.Phase)
}

func TestHub_GetMissing(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx)

	lb, err := h.Get(ctx, "NOPE00")
	require.NoError(t, err)
	assert.Nil(t, lb)
}

func TestHub_Remove_StopsLobby(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx)

	lb, err := h.Ensure(ctx, "RM0001", nil)
	require.NoError(t, err)
	require.NoError(t, h.Remove(ctx, "RM0001"))

	select {
	case <-lb.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("removed lobby still running")
	}

	got, err := h.Get(ctx, "RM0001")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHub_List_Sorted(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx)

	for _, code := range []string{"BBB222", "AAA111", "CCC333"} {
		_, err := h.Ensure(ctx, code, nil)
		require.NoError(t, err)
	}

	codes, err := h.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA111", "BBB222", "CCC333"}, codes)
}

func TestHub_Shutdown_StopsLobbies(t *testing.T) {
	ctx := context.Background()
	h := NewHub(ctx)

	lb, err := h.Ensure(ctx, "END000", nil)
	require.NoError(t, err)

	h.Inbox() <- ShutdownHub{}

	select {
	case <-lb.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("lobby still running after hub shutdown")
	}
	<-h.Done()

	_, err = h.Get(ctx, "END000")
	assert.ErrorIs(t, err, ErrClosed)
}
