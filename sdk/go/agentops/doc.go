// Package agentops provides in-process governance for agent-to-agent
// communication. It evaluates outbound and inbound messages against a
// content policy (keyword/regex deny-list plus optional LLM classification),
// blocks or allows them, tracks run lifecycles with a per-run action budget,
// and emits best-effort telemetry events to a collector.
//
// Usage:
//
//	ao, err := agentops.New(
//	    agentops.WithServerURL("http://localhost:8000"),
//	    agentops.WithProject("support-bot"),
//	)
//	ctx, stop := ao.StartRun(context.Background(), "")
//	defer stop()
//
//	send := ao.WrapSend(func(ctx context.Context, msg agentops.Message) (*agentops.SendResult, error) {
//	    return deliver(ctx, msg) // the real outbound call
//	})
//	_, err = send(ctx, agentops.Message{To: "planner", Text: "status update", URL: peerURL})
//
// Inbound request bodies are governed by wrapping the handler:
//
//	srv := http.Server{Handler: ao.Middleware(mux)}
//
// The SDK links directly against internal packages for zero-subprocess
// overhead. External users import github.com/eliu243/agentops-sdk/sdk/go/agentops.
package agentops
