package diag_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fiberqueue/updatequeue/core"
	"github.com/fiberqueue/updatequeue/diag"
	"github.com/fiberqueue/updatequeue/logging"
)

func TestLogger_WarnReentrantEnqueue(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.NewConsoleHandler(&buf, slog.LevelDebug, false))
	hook := diag.NewLogger(log)

	node := core.NewNode(core.ClassNode, core.State{})
	hook.WarnReentrantEnqueue(node)

	out := buf.String()
	require.Contains(t, out, "reentrant")
	require.Contains(t, out, node.TraceID.String())
}

func TestReentrancyWarning_FiresOnlyForClassNodeDuringActivePass(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.NewConsoleHandler(&buf, slog.LevelDebug, false))
	hook := diag.NewLogger(log)

	ctx := core.NewProcessContext()
	ctx.Hook = hook

	node := core.NewNode(core.ClassNode, core.State{})
	node.Queue = core.CreateQueue(core.State{})

	var reentered bool
	u := core.CreateUpdate(1)
	u.Payload = core.ReducerFunc(func(_ core.Instance, prev core.State, _ core.Props) core.State {
		if !reentered {
			reentered = true
			inner := core.CreateUpdate(1)
			core.EnqueueUpdate(ctx, node, inner)
		}
		return prev
	})
	core.EnqueueUpdate(ctx, node, u)

	core.ProcessQueue(ctx, node, nil, nil, 1)

	require.Contains(t, buf.String(), "reentrant")
}
