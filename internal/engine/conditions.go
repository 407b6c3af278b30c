// internal/engine/conditions.go
package engine

import (
	"fmt"
	"time"

	"admissions-automation/internal/models"
)

// evaluateConditions applies a rule's condition list as a logical AND,
// short-circuiting on the first false. Evaluation errors coerce to false:
// a condition the engine cannot understand never matches.
func (e *Engine) evaluateConditions(app *models.Application, conditions []models.WorkflowCondition) bool {
	for _, cond := range conditions {
		ok, err := e.evaluateCondition(app, cond)
		if err != nil {
			e.logger.Warn("condition evaluation error, treating as unmatched", map[string]interface{}{
				"applicationId": app.ID,
				"conditionType": cond.Type,
				"field":         cond.Field,
				"error":         err,
			})
			return false
		}
		if !ok {
			return false
		}
	}
	return true
}

func (e *Engine) evaluateCondition(app *models.Application, cond models.WorkflowCondition) (bool, error) {
	switch cond.Type {
	case models.ConditionTimeElapsed:
		return e.evaluateTimeElapsed(app, cond)
	case models.ConditionDocumentUploaded:
		return evaluateDocumentUploaded(app, cond)
	case models.ConditionAssessmentCompleted:
		return evaluateAssessmentCompleted(app, cond)
	case models.ConditionInterviewCompleted:
		return evaluateInterviewCompleted(app, cond)
	case models.ConditionCustom:
		return evaluateCustom(app, cond)
	default:
		return false, fmt.Errorf("unknown condition type: %s", cond.Type)
	}
}

// equalsTolerance is the window within which TIME_ELAPSED EQUALS matches.
const equalsTolerance = time.Minute

func (e *Engine) evaluateTimeElapsed(app *models.Application, cond models.WorkflowCondition) (bool, error) {
	threshold := cond.TimeUnit.Duration(cond.TimeValue)
	if threshold == 0 {
		return false, fmt.Errorf("unknown time unit: %s", cond.TimeUnit)
	}
	elapsed := e.now().Sub(app.CreatedAt)

	switch cond.Operator {
	case models.OperatorGreaterThan:
		return elapsed > threshold, nil
	case models.OperatorLessThan:
		return elapsed < threshold, nil
	case models.OperatorEquals:
		diff := elapsed - threshold
		if diff < 0 {
			diff = -diff
		}
		return diff <= equalsTolerance, nil
	default:
		return false, fmt.Errorf("unsupported operator %s for TIME_ELAPSED", cond.Operator)
	}
}

func evaluateDocumentUploaded(app *models.Application, cond models.WorkflowCondition) (bool, error) {
	count := len(app.Documents)
	switch cond.Operator {
	case models.OperatorExists:
		return count > 0, nil
	case models.OperatorGreaterThan:
		want, err := toInt(cond.Value)
		if err != nil {
			return false, err
		}
		return count > want, nil
	case models.OperatorEquals:
		want, err := toInt(cond.Value)
		if err != nil {
			return false, err
		}
		return count == want, nil
	default:
		return false, fmt.Errorf("unsupported operator %s for DOCUMENT_UPLOADED", cond.Operator)
	}
}

// assessmentField resolves the named evaluation off the application.
// Unknown fields evaluate to a nil evaluation with ok=false.
func assessmentField(app *models.Application, field string) (*models.Evaluation, bool) {
	switch field {
	case "eligibilityResult":
		return app.EligibilityResult, true
	case "spiritualEvaluation":
		return app.SpiritualEvaluation, true
	case "academicEvaluation":
		return app.AcademicEvaluation, true
	default:
		return nil, false
	}
}

func evaluateAssessmentCompleted(app *models.Application, cond models.WorkflowCondition) (bool, error) {
	eval, ok := assessmentField(app, cond.Field)
	if !ok {
		return false, fmt.Errorf("unknown assessment field: %s", cond.Field)
	}

	switch cond.Operator {
	case models.OperatorExists:
		return eval != nil, nil
	case models.OperatorEquals:
		if eval == nil {
			return false, nil
		}
		return eval.Outcome == toStringValue(cond.Value), nil
	case models.OperatorNotEquals:
		if eval == nil {
			return false, nil
		}
		return eval.Outcome != toStringValue(cond.Value), nil
	default:
		return false, fmt.Errorf("unsupported operator %s for ASSESSMENT_COMPLETED", cond.Operator)
	}
}

func evaluateInterviewCompleted(app *models.Application, cond models.WorkflowCondition) (bool, error) {
	count := app.CompletedInterviews()
	switch cond.Operator {
	case models.OperatorExists:
		return count > 0, nil
	case models.OperatorGreaterThan:
		want, err := toInt(cond.Value)
		if err != nil {
			return false, err
		}
		return count > want, nil
	default:
		return false, fmt.Errorf("unsupported operator %s for INTERVIEW_COMPLETED", cond.Operator)
	}
}

// evaluateCustom handles generic field comparisons. The virtual field
// "completeness" is computed; other fields resolve through typed accessors
// rather than reflection, and unknown fields never match.
func evaluateCustom(app *models.Application, cond models.WorkflowCondition) (bool, error) {
	if cond.Field == "completeness" {
		return compareInt(app.Completeness(), cond.Operator, cond.Value)
	}

	value, ok := customField(app, cond.Field)
	if !ok {
		return false, fmt.Errorf("unknown field: %s", cond.Field)
	}

	switch cond.Operator {
	case models.OperatorExists:
		return value != "", nil
	case models.OperatorEquals:
		return value == toStringValue(cond.Value), nil
	case models.OperatorNotEquals:
		return value != toStringValue(cond.Value), nil
	default:
		return false, fmt.Errorf("unsupported operator %s for field %s", cond.Operator, cond.Field)
	}
}

func customField(app *models.Application, field string) (string, bool) {
	switch field {
	case "status":
		return string(app.Status), true
	case "personalStatement":
		return app.PersonalStatement, true
	case "spiritualTestimony":
		return app.SpiritualTestimony, true
	case "applicantEmail":
		return app.ApplicantEmail, true
	default:
		return "", false
	}
}

func compareInt(actual int, op models.Operator, value interface{}) (bool, error) {
	switch op {
	case models.OperatorExists:
		return true, nil
	}

	want, err := toInt(value)
	if err != nil {
		return false, err
	}

	switch op {
	case models.OperatorEquals:
		return actual == want, nil
	case models.OperatorNotEquals:
		return actual != want, nil
	case models.OperatorGreaterThan:
		return actual > want, nil
	case models.OperatorLessThan:
		return actual < want, nil
	default:
		return false, fmt.Errorf("unsupported numeric operator: %s", op)
	}
}

// toInt accepts the numeric shapes JSON decoding produces.
func toInt(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("expected numeric value, got %T", value)
	}
}

func toStringValue(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}
