// internal/engine/rulesfile.go
package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"admissions-automation/internal/common/errors"
	"admissions-automation/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// rulesSchema validates operator-supplied rule files before they reach the
// registry. Conditions and actions are validated structurally; semantic
// holes (an unknown field, say) still fail closed at evaluation time.
const rulesSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "fromStatus", "conditions", "actions", "priority"],
    "additionalProperties": true,
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "fromStatus": {
        "type": "string",
        "enum": ["SUBMITTED", "UNDER_REVIEW", "ASSESSMENT_PENDING", "INTERVIEW_SCHEDULED", "DECISION_PENDING", "ACCEPTED", "REJECTED", "WAITLISTED", "DEFERRED", "WITHDRAWN"]
      },
      "toStatus": {
        "type": "string",
        "enum": ["SUBMITTED", "UNDER_REVIEW", "ASSESSMENT_PENDING", "INTERVIEW_SCHEDULED", "DECISION_PENDING", "ACCEPTED", "REJECTED", "WAITLISTED", "DEFERRED", "WITHDRAWN"]
      },
      "isAutomatic": {"type": "boolean"},
      "priority": {"type": "integer"},
      "conditions": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["type", "operator"],
          "properties": {
            "type": {"type": "string", "enum": ["TIME_ELAPSED", "DOCUMENT_UPLOADED", "ASSESSMENT_COMPLETED", "INTERVIEW_COMPLETED", "CUSTOM"]},
            "operator": {"type": "string", "enum": ["GREATER_THAN", "LESS_THAN", "EQUALS", "NOT_EQUALS", "EXISTS"]},
            "field": {"type": "string"},
            "timeValue": {"type": "integer"},
            "timeUnit": {"type": "string", "enum": ["MINUTES", "HOURS", "DAYS", "WEEKS"]}
          }
        }
      },
      "actions": {
        "type": "array",
        "minItems": 1,
        "items": {
          "type": "object",
          "required": ["type"],
          "properties": {
            "type": {"type": "string", "enum": ["UPDATE_STATUS", "SEND_NOTIFICATION", "SCHEDULE_TASK", "ASSIGN_REVIEWER", "CUSTOM"]},
            "params": {"type": "object"}
          }
        }
      }
    }
  }
}`

// LoadRulesFile reads and validates a JSON rules file. Returned rules are
// ready for AddWorkflowRule.
func LoadRulesFile(path string) ([]models.WorkflowRule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return ParseRules(raw)
}

// ParseRules validates raw JSON against the rules schema and unmarshals it.
func ParseRules(raw []byte) ([]models.WorkflowRule, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(rulesSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, errors.NewRuleValidationFailedError(err.Error())
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, errors.NewRuleValidationFailedError(strings.Join(details, "; "))
	}

	var rules []models.WorkflowRule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, errors.NewRuleValidationFailedError(err.Error())
	}
	return rules, nil
}
