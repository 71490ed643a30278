package catalog

import (
	"github.com/kumar241977/ai-coaching-assistant/internal/domain"
)

// Competency is one of the six ICF-style coaching skill categories driving
// response selection.
type Competency string

const (
	CompetencyTrust       Competency = "establishing_trust_and_intimacy"
	CompetencyListening   Competency = "active_listening"
	CompetencyQuestioning Competency = "powerful_questioning"
	CompetencyAwareness   Competency = "creating_awareness"
	CompetencyActions     Competency = "designing_actions"
	CompetencyProgress    Competency = "managing_progress_and_accountability"
)

// competencyByStage is the static stage→competency table.
var competencyByStage = map[domain.Stage]Competency{
	domain.StageIntake:         CompetencyTrust,
	domain.StageExploration:    CompetencyListening,
	domain.StageReflection:     CompetencyAwareness,
	domain.StageActionPlanning: CompetencyActions,
	domain.StageFollowUp:       CompetencyProgress,
}

// CompetencyFor returns the competency applied at a stage.
func CompetencyFor(stage domain.Stage) Competency {
	if c, ok := competencyByStage[stage]; ok {
		return c
	}
	return CompetencyListening
}

// followUpPools holds the follow-up question pool per competency.
var followUpPools = map[Competency][]string{
	CompetencyTrust: {
		"What feels most important to you about this situation?",
		"How comfortable do you feel discussing this openly?",
		"What would make this conversation most valuable for you?",
	},
	CompetencyListening: {
		"Can you tell me more about what's behind that?",
		"What else feels important here?",
		"Help me understand what this means for you day to day.",
	},
	CompetencyQuestioning: {
		"What would happen if you approached this differently?",
		"How does this connect to your broader goals?",
		"What assumptions might you be making here?",
		"What's the real challenge behind this challenge?",
	},
	CompetencyAwareness: {
		"What patterns do you see in what we've discussed?",
		"What's working well that you might build on?",
		"What blind spots might exist in how you're seeing this?",
		"How does this align with what matters most to you?",
	},
	CompetencyActions: {
		"What specific action will you take?",
		"By when will you do this, realistically?",
		"What support do you need to follow through?",
		"How will you know you've succeeded?",
		"What might get in the way, and how will you handle it?",
	},
	CompetencyProgress: {
		"What progress have you made since you committed to this?",
		"What worked well, and what got in the way?",
		"What adjustments would make the plan more realistic?",
		"What have you learned about yourself along the way?",
	},
}

// templateKey addresses one entry in the bank.
type templateKey struct {
	Competency Competency
	Stage      domain.Stage
	Style      domain.StyleTag
}

// Template is a static response descriptor. Text may contain the {topic}
// and {focus} substitution slots.
type Template struct {
	Text      string
	FollowUps []string
}

// bank is the (competency, stage, style) template registry. Entries absent
// here are served through the fallback chain in selection.go.
var bank = map[templateKey]Template{
	// Intake: establishing trust
	{CompetencyTrust, domain.StageIntake, domain.StyleNeutral}: {
		Text: "Welcome to your coaching session. I'm here to support you in exploring what's important to you. This is a confidential space where you can share openly.",
		FollowUps: []string{
			"What would you like to work on in today's session?",
			"What brings you to coaching right now?",
			"How can I best support you today?",
		},
	},
	{CompetencyTrust, domain.StageIntake, domain.StyleSupportive}: {
		Text: "I appreciate you being here. Whatever is on your mind, we can take it at your pace — this is a safe space to explore what matters to you.",
		FollowUps: []string{
			"What feels most pressing for you right now?",
			"What would make today's conversation worthwhile?",
		},
	},

	// Exploration: active listening
	{CompetencyListening, domain.StageExploration, domain.StyleNeutral}: {
		Text: "Thank you for sharing that. What I'm hearing is that {focus} is really present for you in {topic}. Can you help me understand more about what's behind this?",
	},
	{CompetencyListening, domain.StageExploration, domain.StyleSupportive}: {
		Text: "I can sense this feels heavy right now. What you're describing around {focus} sounds genuinely difficult, and it takes courage to name it. Let's take this one step at a time.",
		FollowUps: []string{
			"What part of this feels most overwhelming at the moment?",
			"What has helped you get through moments like this before?",
		},
	},
	{CompetencyListening, domain.StageExploration, domain.StyleDirect}: {
		Text: "I hear the frustration around {focus}. Let's get concrete about what's actually happening with {topic}.",
		FollowUps: []string{
			"What specifically is blocking you right now?",
			"What's one thing within your control in this situation?",
		},
	},
	{CompetencyListening, domain.StageExploration, domain.StyleChallenging}: {
		Text: "There's real energy in how you talk about {topic}. I'm curious what assumptions might be shaping your view of {focus}.",
		FollowUps: []string{
			"What evidence supports the way you're reading this situation?",
			"What would someone who disagrees with you say?",
		},
	},

	// Reflection: creating awareness
	{CompetencyAwareness, domain.StageReflection, domain.StyleNeutral}: {
		Text: "I'm noticing some patterns in what you've shared about {topic}. What do you make of that?",
	},
	{CompetencyAwareness, domain.StageReflection, domain.StyleSupportive}: {
		Text: "You've shared a lot, and a thread keeps coming back around {focus}. That kind of awareness is already real progress. What does that pattern tell you?",
	},
	{CompetencyAwareness, domain.StageReflection, domain.StyleDirect}: {
		Text: "A clear pattern is emerging around {focus}. Name it for yourself: what keeps repeating, and what does it cost you?",
	},
	{CompetencyAwareness, domain.StageReflection, domain.StyleChallenging}: {
		Text: "You clearly see the pattern around {focus}. What would it mean about you if that belief turned out to be wrong?",
	},

	// Action planning: designing actions
	{CompetencyActions, domain.StageActionPlanning, domain.StyleNeutral}: {
		Text: "Based on our conversation and the insights you've gained about {topic}, what feels like the most important action you could take?",
	},
	{CompetencyActions, domain.StageActionPlanning, domain.StyleSupportive}: {
		Text: "You've done real work getting here. Given everything you've seen about {focus}, what's one small, kind-to-yourself step you could commit to?",
	},
	{CompetencyActions, domain.StageActionPlanning, domain.StyleDirect}: {
		Text: "Time to commit. What specific action will move you forward on {topic}, and by when?",
	},
	{CompetencyActions, domain.StageActionPlanning, domain.StyleChallenging}: {
		Text: "You have the capability — you've said so yourself. What ambitious but concrete step on {topic} would prove it this week?",
	},

	// Follow-up: managing progress
	{CompetencyProgress, domain.StageFollowUp, domain.StyleNeutral}: {
		Text: "Let's check in on your progress since you made your commitment on {topic}.",
	},
	{CompetencyProgress, domain.StageFollowUp, domain.StyleSupportive}: {
		Text: "Welcome back. However the week went, showing up to review it matters. How has the commitment on {topic} been going?",
	},
}

// stageGeneric is the last link of the fallback chain: a response always
// exists for every stage.
var stageGeneric = map[domain.Stage]Template{
	domain.StageIntake: {
		Text: "Welcome. Take a moment and tell me what you'd like to focus on today.",
		FollowUps: []string{
			"What would you like to work on in today's session?",
		},
	},
	domain.StageExploration: {
		Text: "I'm listening carefully to what you're sharing about {topic}. What stands out most to you as we explore this together?",
	},
	domain.StageReflection: {
		Text: "As you look back over what we've discussed about {topic}, what patterns do you see?",
	},
	domain.StageActionPlanning: {
		Text: "What feels like the right next step on {topic}?",
	},
	domain.StageFollowUp: {
		Text: "Let's review how things have gone since we last spoke.",
	},
}
