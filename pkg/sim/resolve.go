package sim

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Dealt is the hand/deck pair computed by the deck manager before a turn
// resolves. Dealing is independent of the simulation outcome.
type Dealt struct {
	Hand []ActionCard
	Deck []ActionCard
}

// TurnFailureText is the in-world message logged when the oracle call for a
// turn fails. The turn counter does not advance in that case.
const TurnFailureText = "System Error: Simulation failed."

// Resolve folds a turn result into the prior state and returns the next
// state. It is pure and total: the prior state is never mutated, and any
// structurally valid result produces a state without error. Out-of-range
// values are clamped, not rejected.
//
// Step order matters: agent updates see pre-turn statuses, bankruptcy
// overrides the oracle's status verdict, and objective-completion logging
// compares against the prior objective list.
func Resolve(prior *GameState, result *TurnResult, dealt Dealt) *GameState {
	next := *prior
	next.History = cloneLogs(prior.History)

	// 1. Agent status and morale fold.
	firstIdle := ""
	for _, a := range prior.Agents {
		if a.Status == AgentIdle {
			firstIdle = a.ID
			break
		}
	}
	next.Agents = make([]Agent, 0, len(prior.Agents))
	for _, agent := range prior.Agents {
		update := matchUpdate(result.AgentUpdates, agent, firstIdle)
		if update != nil {
			// Working burns morale, resting regenerates it.
			regen := 5
			if agent.Status == AgentWorking {
				regen = -5
			}
			agent.Morale = clamp(agent.Morale+update.MoraleChange+regen, 0, 100)
			agent.Status = update.Status
			if update.TaskDescription != "" {
				agent.CurrentTask = update.TaskDescription
			}
		} else if agent.Status == AgentDone {
			agent.Status = AgentIdle
			agent.CurrentTask = ""
		}
		next.Agents = append(next.Agents, agent)
	}

	// 2. Hiring.
	var hired *Agent
	if result.NewAgent != nil {
		traits := result.NewAgent.Traits
		if traits == nil {
			traits = []string{}
		}
		newAgent := Agent{
			ID:         "agent_" + uuid.NewString()[:8],
			Name:       result.NewAgent.Name,
			Role:       result.NewAgent.Role,
			Status:     AgentIdle,
			SkillLevel: result.NewAgent.SkillLevel,
			Morale:     100,
			Traits:     traits,
		}
		next.Agents = append(next.Agents, newAgent)
		hired = &next.Agents[len(next.Agents)-1]
	}

	// 3. Firing.
	if result.AgentFiredID != "" {
		kept := next.Agents[:0]
		for _, a := range next.Agents {
			if a.ID != result.AgentFiredID {
				kept = append(kept, a)
			}
		}
		next.Agents = kept
	}

	// 4. Status and financial fold. Bankruptcy is enforced locally and
	// overrides whatever status the oracle supplied.
	next.Cash = prior.Cash + result.CashChange
	next.LastCashChange = result.CashChange
	if result.GameStatusUpdate != "" {
		next.Status = result.GameStatusUpdate
	}
	if next.Cash < 0 {
		next.Status = StatusLost
	}
	next.Users = prior.Users + result.UserChange
	if next.Users < 0 {
		next.Users = 0
	}
	next.LastUserChange = result.UserChange
	next.Reputation = clamp(prior.Reputation+result.ReputationChange, 0, 100)
	next.ProductQuality = clamp(prior.ProductQuality+result.ProductQualityChange, 0, 100)
	if result.StageProgression != "" && result.StageProgression != prior.Stage {
		next.Stage = result.StageProgression
	}

	// 5. Objectives: non-empty update replaces wholesale, empty retains.
	if len(result.ObjectivesUpdate) > 0 {
		next.Objectives = append([]Objective(nil), result.ObjectivesUpdate...)
	} else {
		next.Objectives = prior.Objectives
	}

	// 6. Suggested actions.
	if len(result.SuggestedActions) > 0 {
		next.SuggestedCommands = append([]string(nil), result.SuggestedActions...)
	} else {
		next.SuggestedCommands = DefaultSuggestions()
	}

	// 7. Card bookkeeping: hand and deck were dealt before the fold ran.
	next.Hand = dealt.Hand
	next.Deck = dealt.Deck

	// 8. Event tracking: events do not persist unless re-issued.
	next.ActiveEvent = result.RandomEvent

	// 9. Turn counter.
	next.Turn = prior.Turn + 1
	next.UpdatedAt = time.Now()

	// 10. Log emission, in order, at the new turn number.
	narrativeSentiment := SentimentNeutral
	if result.CashChange > 0 || result.UserChange > 0 {
		narrativeSentiment = SentimentPositive
	}
	next.AppendLog(SourceSystem, result.Narrative, narrativeSentiment)

	if result.RandomEvent != nil {
		sentiment := SentimentPositive
		if result.RandomEvent.Type == EventCrisis {
			sentiment = SentimentNegative
		}
		next.AppendLog(SourceEvent, fmt.Sprintf("%s: %s", result.RandomEvent.Type, result.RandomEvent.Title), sentiment)
	}
	if hired != nil {
		next.AppendLog(SourceSystem, fmt.Sprintf("New hire onboarded: %s (%s)", hired.Name, hired.Role), SentimentPositive)
	}
	if result.AgentFiredID != "" {
		next.AppendLog(SourceSystem, "Agent has left the company.", SentimentNegative)
	}
	for _, obj := range result.ObjectivesUpdate {
		if !obj.IsCompleted {
			continue
		}
		if completedBefore(prior.Objectives, obj.ID) {
			continue
		}
		next.AppendLog(SourceSystem, fmt.Sprintf("OBJECTIVE COMPLETE: %s (%s)", obj.Description, obj.Reward), SentimentPositive)
	}

	return &next
}

// ResolveFailure is the state transition for a failed oracle call: the prior
// state is preserved verbatim except for one failure log entry. No counters
// advance, so a failed turn can be retried without desynchronizing state.
func ResolveFailure(prior *GameState) *GameState {
	next := *prior
	next.History = cloneLogs(prior.History)
	next.AppendLog(SourceSystem, TurnFailureText, SentimentNegative)
	next.UpdatedAt = time.Now()
	return &next
}

// matchUpdate finds the first update targeting the agent: an exact id match,
// or the ANY wildcard resolved to the first agent that was IDLE at the start
// of the turn.
func matchUpdate(updates []AgentUpdate, agent Agent, firstIdle string) *AgentUpdate {
	for i := range updates {
		u := &updates[i]
		if u.AgentID == agent.ID {
			return u
		}
		if u.AgentID == AgentUpdateTargetAny && agent.ID == firstIdle {
			return u
		}
	}
	return nil
}

func completedBefore(objectives []Objective, id string) bool {
	for _, o := range objectives {
		if o.ID == id {
			return o.IsCompleted
		}
	}
	return false
}

func cloneLogs(history []LogEntry) []LogEntry {
	out := make([]LogEntry, len(history))
	copy(out, history)
	return out
}
