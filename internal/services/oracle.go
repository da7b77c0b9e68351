package services

import (
	"context"
	"errors"

	"github.com/jwebster45206/foundermode/pkg/sim"
)

// ErrInvalidTurnResult marks an oracle response that parsed as JSON but is
// missing a contractually required field. Callers treat it exactly like a
// transport failure: the whole turn fails, nothing is partially applied.
var ErrInvalidTurnResult = errors.New("turn result missing required fields")

// Oracle is the external generative service behind the simulation. Every
// call is a request/response round trip to a remote API and may suspend
// from sub-second up to minutes (video). Adapters perform no retries;
// retry policy belongs to the caller.
//
// SimulateTurn either returns a fully valid TurnResult or an error, never
// a partial result. GenerateVideo polls the remote long-running operation
// to completion before returning.
type Oracle interface {
	GeneratePlan(ctx context.Context, idea string) (*sim.BusinessPlan, error)
	SimulateTurn(ctx context.Context, snap sim.Snapshot, command string) (*sim.TurnResult, error)
	Chat(ctx context.Context, agent sim.Agent, message string) (*sim.ChatResult, error)
	AnalyzeMarket(ctx context.Context, targetMarket string) ([]sim.Competitor, error)
	GenerateImage(ctx context.Context, prompt string, aspectRatio string) (string, error)
	GenerateVideo(ctx context.Context, prompt string) (string, error)
}

// Aspect ratios for image generation.
const (
	AspectWide   = "16:9"
	AspectSquare = "1:1"
)
