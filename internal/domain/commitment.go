package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ActionCommitment is the structured closing artifact recorded when a
// session completes action planning. All five fields are required.
type ActionCommitment struct {
	Action             string    `json:"action" validate:"required"`
	ByWhen             string    `json:"by_when" validate:"required"`
	SuccessCriteria    string    `json:"success_criteria" validate:"required"`
	PotentialObstacles string    `json:"potential_obstacles" validate:"required"`
	SupportNeeded      string    `json:"support_needed" validate:"required"`
	CommittedAt        time.Time `json:"committed_at"`
}

// commitmentJSONNames maps struct field names to their wire names for error
// reporting.
var commitmentJSONNames = map[string]string{
	"Action":             "action",
	"ByWhen":             "by_when",
	"SuccessCriteria":    "success_criteria",
	"PotentialObstacles": "potential_obstacles",
	"SupportNeeded":      "support_needed",
}

// Validate checks the commitment for completeness and returns an
// IncompleteCommitmentError listing missing fields when it is not.
func (c *ActionCommitment) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := commitmentJSONNames[fe.Field()]
		if name == "" {
			name = fe.Field()
		}
		missing = append(missing, name)
	}
	return &IncompleteCommitmentError{Missing: missing}
}
