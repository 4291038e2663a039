package lead

import "strconv"

// Score bounds and bonus points for the deterministic lead-scoring heuristic.
const (
	maxScore = 100

	urgencyImmediatePoints = 30
	urgency30DaysPoints    = 20
	urgency3MonthsPoints   = 10

	perInsuranceTypePoints = 5

	clientBusinessPoints   = 25
	clientFamilyPoints     = 15
	clientIndividualPoints = 10

	seniorAge       = 65
	seniorAgePoints = 20
	nearSeniorAge   = 60
	nearSeniorAgePoints = 10

	companyProvidedPoints = 15

	qualityHighThreshold   = 70
	qualityMediumThreshold = 40
)

// CalculateScore computes the point score for an insurance submission. The
// result is always within [0, 100].
func CalculateScore(s Submission) int {
	score := 0

	switch s.Urgency {
	case UrgencyImmediate:
		score += urgencyImmediatePoints
	case UrgencyWithin30Days:
		score += urgency30DaysPoints
	case UrgencyWithin3Months:
		score += urgency3MonthsPoints
	}

	score += perInsuranceTypePoints * len(s.InsuranceTypes)

	switch s.ClientType {
	case "business":
		score += clientBusinessPoints
	case "family":
		score += clientFamilyPoints
	case "individual":
		score += clientIndividualPoints
	}

	if age, err := strconv.Atoi(s.Age); err == nil {
		switch {
		case age >= seniorAge:
			score += seniorAgePoints
		case age >= nearSeniorAge:
			score += nearSeniorAgePoints
		}
	}

	if s.Company != "" {
		score += companyProvidedPoints
	}

	if score > maxScore {
		score = maxScore
	}

	if score < 0 {
		score = 0
	}

	return score
}

// QualityForScore maps a lead score to its quality tier.
func QualityForScore(score int) string {
	switch {
	case score >= qualityHighThreshold:
		return QualityHigh
	case score >= qualityMediumThreshold:
		return QualityMedium
	default:
		return QualityLow
	}
}
