package assessment

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/engine"
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
	assessmentDB "github.com/wttaideveloper/MentalHealth-sub002/pkg/db/assessment"
	platformuserDB "github.com/wttaideveloper/MentalHealth-sub002/pkg/db/platform-user"
	emailsending "github.com/wttaideveloper/MentalHealth-sub002/pkg/messaging/email-sending"
	umTypes "github.com/wttaideveloper/MentalHealth-sub002/pkg/user-management/types"
)

var (
	assessmentDBService   *assessmentDB.AssessmentDBService
	platformUserDBService *platformuserDB.PlatformUserDBService
)

func Init(
	aDB *assessmentDB.AssessmentDBService,
	puDB *platformuserDB.PlatformUserDBService,
) {
	assessmentDBService = aDB
	platformUserDBService = puDB
}

// SaveTestDefinition validates the submitted test definition document and
// persists it when valid. A set id means replace, otherwise create.
func SaveTestDefinition(instanceID string, testDef *types.TestDefinition) (types.ValidationResult, error) {
	validationResult := engine.ValidateTestData(testDefAsRawDoc(testDef))
	if !validationResult.Valid {
		return validationResult, nil
	}

	var err error
	if testDef.ID.IsZero() {
		testDef.IsActive = true
		err = assessmentDBService.CreateTestDefinition(instanceID, testDef)
	} else {
		err = assessmentDBService.ReplaceTestDefinition(instanceID, testDef)
	}
	return validationResult, err
}

// testDefAsRawDoc converts the typed definition back into the raw document
// shape the validator works on.
func testDefAsRawDoc(testDef *types.TestDefinition) map[string]any {
	questions := make([]any, len(testDef.SchemaJSON.Questions))
	for i, q := range testDef.SchemaJSON.Questions {
		questions[i] = questionAsRawDoc(q)
	}

	doc := map[string]any{
		"title": testDef.Title,
		"schemaJson": map[string]any{
			"questions": questions,
		},
	}
	if testDef.ScoringRules != nil {
		doc["scoringRules"] = scoringRulesAsRawDoc(testDef.ScoringRules)
	}
	if testDef.RiskRules != nil {
		doc["riskRules"] = riskRulesAsRawDoc(testDef.RiskRules)
	}
	if testDef.EligibilityRules != nil {
		doc["eligibilityRules"] = testDef.EligibilityRules
	}
	return doc
}

func questionAsRawDoc(q types.Question) map[string]any {
	doc := map[string]any{
		"id":   q.ID,
		"text": q.Text,
		"type": q.Type,
	}
	if len(q.Options) > 0 {
		options := make([]any, len(q.Options))
		for i, o := range q.Options {
			options[i] = map[string]any{"value": o.Value, "label": o.Label}
		}
		doc["options"] = options
	}
	if q.Min != nil {
		doc["min"] = *q.Min
	}
	if q.Max != nil {
		doc["max"] = *q.Max
	}
	if q.Step != nil {
		doc["step"] = *q.Step
	}
	if q.MaxLength != nil {
		doc["maxLength"] = float64(*q.MaxLength)
	}
	if q.Rows != nil {
		doc["rows"] = float64(*q.Rows)
	}
	if q.Required {
		doc["required"] = q.Required
	}
	if q.IsCritical {
		doc["isCritical"] = q.IsCritical
	}
	if q.HelpText != "" {
		doc["helpText"] = q.HelpText
	}
	if q.Order != nil {
		doc["order"] = *q.Order
	}
	if q.ShowIf != nil {
		doc["showIf"] = q.ShowIf
	}
	return doc
}

func scoringRulesAsRawDoc(rules *types.ScoringRules) map[string]any {
	items := make([]any, len(rules.Items))
	for i, item := range rules.Items {
		items[i] = item
	}
	bands := make([]any, len(rules.Bands))
	for i, band := range rules.Bands {
		bands[i] = map[string]any{
			"min":   band.Min,
			"max":   band.Max,
			"label": band.Label,
		}
	}
	doc := map[string]any{
		"type":  rules.Type,
		"items": items,
		"bands": bands,
	}
	if len(rules.Weights) > 0 {
		weights := map[string]any{}
		for k, v := range rules.Weights {
			weights[k] = v
		}
		doc["weights"] = weights
	}
	return doc
}

func riskRulesAsRawDoc(rules *types.RiskRules) map[string]any {
	triggers := make([]any, len(rules.Triggers))
	for i, trigger := range rules.Triggers {
		triggerDoc := map[string]any{
			"questionId": trigger.QuestionID,
		}
		if trigger.Equals != nil {
			triggerDoc["equals"] = trigger.Equals
		}
		if trigger.Gte != nil {
			triggerDoc["gte"] = trigger.Gte
		}
		if trigger.Flag != "" {
			triggerDoc["flag"] = trigger.Flag
		}
		if trigger.HelpText != "" {
			triggerDoc["helpText"] = trigger.HelpText
		}
		triggers[i] = triggerDoc
	}
	doc := map[string]any{
		"triggers": triggers,
	}
	if rules.HelpText != "" {
		doc["helpText"] = rules.HelpText
	}
	return doc
}

// ArchiveTestDefinition soft-deletes a test, it stays resolvable for
// existing attempts.
func ArchiveTestDefinition(instanceID string, testID string) error {
	return assessmentDBService.ArchiveTestDefinition(instanceID, testID)
}

// GetEligibleActiveTests lists active tests the given user profile is
// eligible for.
func GetEligibleActiveTests(instanceID string, user *umTypes.PlatformUser) ([]*types.TestDefinition, error) {
	testDefs, err := assessmentDBService.GetTestDefinitions(instanceID, "", true)
	if err != nil {
		return nil, err
	}

	profile := profileAsAttributes(user)
	eligible := []*types.TestDefinition{}
	for _, testDef := range testDefs {
		if engine.EvalEligibility(testDef.EligibilityRules, profile) {
			eligible = append(eligible, testDef)
		}
	}
	return eligible, nil
}

func profileAsAttributes(user *umTypes.PlatformUser) map[string]any {
	if user == nil {
		return map[string]any{}
	}
	attributes := map[string]any{
		"gender": user.Profile.Gender,
	}
	if age := user.Age(); age >= 0 {
		attributes["age"] = age
	}
	return attributes
}

// StartAttempt opens a new in-progress attempt, or returns the existing one
// when the user already has an attempt in progress for this test.
func StartAttempt(instanceID string, user *umTypes.PlatformUser, testID string) (*types.TestAttempt, error) {
	testDef, err := assessmentDBService.GetTestDefinitionByID(instanceID, testID)
	if err != nil {
		return nil, err
	}
	if !testDef.IsActive {
		return nil, errors.New("test is not active")
	}
	if !engine.EvalEligibility(testDef.EligibilityRules, profileAsAttributes(user)) {
		return nil, errors.New("user is not eligible for this test")
	}

	userID := user.ID.Hex()
	if testDef.Price > 0 {
		paid, err := platformUserDBService.HasCompletedPurchase(instanceID, userID, testID)
		if err != nil {
			return nil, err
		}
		if !paid {
			return nil, errors.New("test requires a completed purchase")
		}
	}

	if existing, err := assessmentDBService.GetCurrentAttemptForUser(instanceID, userID, testID); err == nil {
		return existing, nil
	}

	attempt := &types.TestAttempt{
		UserID:  userID,
		TestID:  testID,
		Answers: types.Answers{},
	}
	if err := assessmentDBService.CreateTestAttempt(instanceID, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// VisibleQuestionsForAttempt recomputes question visibility for the current
// answers of an attempt.
func VisibleQuestionsForAttempt(instanceID string, userID string, attemptID string, answers types.Answers) ([]types.Question, error) {
	attempt, err := assessmentDBService.GetTestAttemptByID(instanceID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, errors.New("attempt does not belong to this user")
	}

	testDef, err := assessmentDBService.GetTestDefinitionByID(instanceID, attempt.TestID)
	if err != nil {
		return nil, err
	}

	if answers == nil {
		answers = attempt.Answers
	}
	return engine.VisibleQuestions(testDef.SchemaJSON.Questions, answers), nil
}

// SaveAttemptAnswers stores the partial answers of an in-progress attempt.
func SaveAttemptAnswers(instanceID string, userID string, attemptID string, answers types.Answers) error {
	return assessmentDBService.UpdateAttemptAnswers(instanceID, attemptID, userID, answers)
}

// SubmitAttempt finalizes an attempt: checks required visible questions,
// evaluates score and risk, persists the result and notifies the user.
func SubmitAttempt(instanceID string, user *umTypes.PlatformUser, attemptID string, answers types.Answers) (*types.AttemptResult, error) {
	userID := user.ID.Hex()

	attempt, err := assessmentDBService.GetTestAttemptByID(instanceID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, errors.New("attempt does not belong to this user")
	}
	if attempt.Status != types.ATTEMPT_STATUS_IN_PROGRESS {
		return nil, errors.New("attempt is not in progress")
	}

	testDef, err := assessmentDBService.GetTestDefinitionByID(instanceID, attempt.TestID)
	if err != nil {
		return nil, err
	}

	if answers == nil {
		answers = attempt.Answers
	}
	answers = restrictToKnownQuestions(testDef, answers)

	if err := checkRequiredAnswers(testDef.SchemaJSON.Questions, answers); err != nil {
		return nil, err
	}

	scoreResult := engine.EvalScore(testDef.ScoringRules, answers)
	riskResult := engine.EvalRisk(testDef.RiskRules, answers)

	result := &types.AttemptResult{
		Total:    scoreResult.Total,
		Band:     scoreResult.Band,
		HasRisk:  riskResult.HasRisk,
		Flags:    riskResult.Flags,
		HelpText: riskResult.HelpText,
	}

	if err := assessmentDBService.FinalizeTestAttempt(instanceID, attemptID, userID, answers, result); err != nil {
		return nil, err
	}

	notifyReportReady(user, testDef, result)

	return result, nil
}

// restrictToKnownQuestions drops answer keys that do not belong to any
// question of the definition, so stray client fields never reach scoring or
// the stored result.
func restrictToKnownQuestions(testDef *types.TestDefinition, answers types.Answers) types.Answers {
	known := map[string]bool{}
	for _, id := range testDef.QuestionIDs() {
		known[id] = true
	}

	cleaned := types.Answers{}
	for id, answer := range answers {
		if known[id] {
			cleaned[id] = answer
		}
	}
	return cleaned
}

// checkRequiredAnswers rejects a submission when a required question that is
// visible under the current answers has no answer.
func checkRequiredAnswers(questions []types.Question, answers types.Answers) error {
	for _, question := range questions {
		if !question.Required {
			continue
		}
		if !engine.IsQuestionVisible(question, answers) {
			continue
		}
		if answer, ok := answers[question.ID]; !ok || answer == nil {
			return fmt.Errorf("required question %s has no answer", question.ID)
		}
	}
	return nil
}

func notifyReportReady(user *umTypes.PlatformUser, testDef *types.TestDefinition, result *types.AttemptResult) {
	if user.Account.Type != umTypes.ACCOUNT_TYPE_EMAIL || user.Account.AccountID == "" {
		return
	}

	helpText := ""
	if result.HasRisk {
		helpText = result.HelpText
	}

	err := emailsending.SendReportReadyEmail(
		[]string{user.Account.AccountID},
		user.Profile.Nickname,
		testDef.Title,
		helpText,
	)
	if err != nil {
		slog.Error("failed to send report ready notification", slog.String("error", err.Error()), slog.String("userID", user.ID.Hex()))
	}
}
