// Package engine owns per-session conversation progression: given the
// current stage, the inbound input and the analyzer's reading, it decides
// the next stage, selects the competency content and mutates the session.
// Callers must serialize calls per session; the engine holds no locks.
package engine

import (
	"fmt"
	"time"

	"github.com/kumar241977/ai-coaching-assistant/internal/analyzer"
	"github.com/kumar241977/ai-coaching-assistant/internal/catalog"
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
)

// InputKind distinguishes the three accepted payload shapes.
type InputKind string

const (
	InputText             InputKind = "text"
	InputTopicSelection   InputKind = "topic_selection"
	InputActionCommitment InputKind = "action_commitment"
)

// Input is one inbound user payload.
type Input struct {
	Kind       InputKind
	Text       string
	Commitment *domain.ActionCommitment
}

// Result is the composed coaching response for one turn.
type Result struct {
	Message         string                   `json:"message"`
	Questions       []string                 `json:"questions"`
	Stage           domain.Stage             `json:"stage"`
	Competency      catalog.Competency       `json:"competency"`
	Style           domain.StyleTag          `json:"style"`
	Emotion         *domain.EmotionReading   `json:"emotional_analysis,omitempty"`
	Insights        []string                 `json:"insights,omitempty"`
	ActionSummary   *domain.ActionCommitment `json:"action_summary,omitempty"`
	AvailableTopics []string                 `json:"available_topics,omitempty"`
	Advanced        bool                     `json:"-"`
}

// Config carries the conversation heuristics. Zero values fall back to the
// documented defaults.
type Config struct {
	ExplorationMinTurns int
	ReflectionMinTurns  int
	MaxStageTurns       int
	EmotionWindow       int
	DominanceThreshold  float64
	MaxInsights         int
	InsightMinTurns     int
}

// DefaultConfig returns the documented default heuristics.
func DefaultConfig() Config {
	return Config{
		ExplorationMinTurns: 3,
		ReflectionMinTurns:  2,
		MaxStageTurns:       6,
		EmotionWindow:       5,
		DominanceThreshold:  0.3,
		MaxInsights:         3,
		InsightMinTurns:     2,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ExplorationMinTurns <= 0 {
		c.ExplorationMinTurns = d.ExplorationMinTurns
	}
	if c.ReflectionMinTurns <= 0 {
		c.ReflectionMinTurns = d.ReflectionMinTurns
	}
	if c.MaxStageTurns <= 0 {
		c.MaxStageTurns = d.MaxStageTurns
	}
	if c.EmotionWindow <= 0 {
		c.EmotionWindow = d.EmotionWindow
	}
	if c.DominanceThreshold <= 0 {
		c.DominanceThreshold = d.DominanceThreshold
	}
	if c.MaxInsights <= 0 {
		c.MaxInsights = d.MaxInsights
	}
	if c.InsightMinTurns <= 0 {
		c.InsightMinTurns = d.InsightMinTurns
	}
	return c
}

// Engine is the stage state machine. Stateless apart from its config; all
// session state lives on the session itself.
type Engine struct {
	cfg Config
}

// New creates an engine with the given heuristics.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Advance processes one inbound payload against the session, mutating
// stage, history and emotional profile. Structural errors (unknown topic,
// stage mismatch, incomplete commitment) leave the session unchanged.
func (e *Engine) Advance(session *domain.Session, in Input) (*Result, error) {
	switch in.Kind {
	case InputTopicSelection:
		return e.selectTopic(session, in.Text)
	case InputText:
		return e.processText(session, in.Text)
	case InputActionCommitment:
		return e.commitAction(session, in.Commitment)
	default:
		return nil, fmt.Errorf("unsupported input kind %q", in.Kind)
	}
}

// Greeting composes the intake welcome for a fresh session without
// consuming a turn.
func (e *Engine) Greeting(session *domain.Session) *Result {
	resp := catalog.SelectResponse(domain.StageIntake, domain.Topic{}, domain.StyleNeutral, nil)
	return &Result{
		Message:         resp.Message,
		Questions:       resp.Questions,
		Stage:           session.Stage,
		Competency:      resp.Competency,
		Style:           resp.Style,
		AvailableTopics: catalog.TopicKeys(),
	}
}

func (e *Engine) selectTopic(session *domain.Session, token string) (*Result, error) {
	if session.Stage != domain.StageIntake {
		return nil, &domain.StageMismatchError{
			Op:       "topic selection",
			Current:  session.Stage,
			Required: domain.StageIntake,
		}
	}

	topic, err := catalog.Topic(token)
	if err != nil {
		return nil, err
	}

	session.AppendTurn(domain.Turn{Role: domain.RoleUser, Content: token, Stage: session.Stage})
	session.TopicKey = topic.Key
	session.Stage = domain.StageExploration

	message := fmt.Sprintf(
		"Great, let's explore %s together. %s — tell me what this looks like for you right now.",
		topic.Name, topic.Description,
	)
	session.AppendTurn(domain.Turn{Role: domain.RoleCoach, Content: message, Stage: session.Stage})

	return &Result{
		Message:    message,
		Questions:  catalog.FilterQuestions(topic.InitialQuestions),
		Stage:      session.Stage,
		Competency: catalog.CompetencyFor(session.Stage),
		Style:      domain.StyleNeutral,
		Advanced:   true,
	}, nil
}

func (e *Engine) processText(session *domain.Session, text string) (*Result, error) {
	reading, err := analyzer.Analyze(text)
	if err != nil {
		// Analysis degrading to neutral is not a user-visible failure.
		reading = domain.NeutralReading()
	}

	session.Profile.Size = e.cfg.EmotionWindow
	session.Profile.Add(reading)
	session.AppendTurn(domain.Turn{
		Role:    domain.RoleUser,
		Content: text,
		Stage:   session.Stage,
		Emotion: &reading,
	})

	advanced := e.maybeAdvanceStage(session, text)

	topic, _ := catalog.Topic(session.TopicKey)
	style := analyzer.StyleFor(session.Profile, e.cfg.DominanceThreshold)
	resp := catalog.SelectResponse(session.Stage, topic, style, session.RecentUserTexts(3))

	result := &Result{
		Message:    resp.Message,
		Questions:  resp.Questions,
		Stage:      session.Stage,
		Competency: resp.Competency,
		Style:      resp.Style,
		Emotion:    &reading,
		Advanced:   advanced,
	}

	if session.Stage == domain.StageIntake {
		// Still waiting on a topic; surface the catalog again.
		result.AvailableTopics = catalog.TopicKeys()
	}

	if session.Stage.Index() >= domain.StageReflection.Index() {
		result.Insights = ExtractInsights(
			session.History, session.TopicKey,
			e.cfg.InsightMinTurns, e.cfg.MaxInsights,
		)
	}

	session.AppendTurn(domain.Turn{Role: domain.RoleCoach, Content: resp.Message, Stage: session.Stage})
	return result, nil
}

// maybeAdvanceStage applies the turn-count-and-content heuristic: a stage
// becomes eligible after its minimum number of qualifying exchanges, the
// advancement itself fires on a stage-appropriate readiness signal, and the
// per-stage turn cap forces progress so a conversation cannot stall.
func (e *Engine) maybeAdvanceStage(session *domain.Session, text string) bool {
	stageTurns := session.StageUserTurns(session.Stage)
	signal := DetectSignal(text)

	advance := false
	switch session.Stage {
	case domain.StageExploration:
		eligible := stageTurns >= e.cfg.ExplorationMinTurns
		advance = (eligible && signal >= SignalInsight) || stageTurns >= e.cfg.MaxStageTurns
	case domain.StageReflection:
		eligible := stageTurns >= e.cfg.ReflectionMinTurns
		advance = (eligible && signal == SignalCommitment) || stageTurns >= e.cfg.MaxStageTurns
	default:
		// Intake advances only via topic selection, ActionPlanning only via
		// a structured commitment, FollowUp is the end of the line.
	}

	if advance {
		session.Stage = session.Stage.Next()
	}
	return advance
}

func (e *Engine) commitAction(session *domain.Session, commitment *domain.ActionCommitment) (*Result, error) {
	if session.Stage != domain.StageActionPlanning {
		return nil, &domain.StageMismatchError{
			Op:       "action commitment",
			Current:  session.Stage,
			Required: domain.StageActionPlanning,
		}
	}
	if commitment == nil {
		return nil, &domain.IncompleteCommitmentError{
			Missing: []string{"action", "by_when", "success_criteria", "potential_obstacles", "support_needed"},
		}
	}
	if err := commitment.Validate(); err != nil {
		return nil, err
	}

	committed := *commitment
	committed.CommittedAt = time.Now().UTC()

	session.AppendTurn(domain.Turn{Role: domain.RoleUser, Content: committed.Action, Stage: session.Stage})
	session.Commitment = &committed
	session.Stage = domain.StageFollowUp

	message := fmt.Sprintf(
		"Thank you for making that commitment: %q by %s. I'm confident you can achieve this — we can review your progress in a follow-up.",
		committed.Action, committed.ByWhen,
	)
	session.AppendTurn(domain.Turn{Role: domain.RoleCoach, Content: message, Stage: session.Stage})

	return &Result{
		Message:       message,
		Questions:     catalog.FilterQuestions(followUpClosing),
		Stage:         session.Stage,
		Competency:    catalog.CompetencyFor(session.Stage),
		Style:         domain.StyleNeutral,
		ActionSummary: &committed,
		Advanced:      true,
	}, nil
}

// followUpClosing is offered once a commitment is recorded.
var followUpClosing = []string{
	"When would you like to check in on how this went?",
	"What will be the first sign that the plan is working?",
}
