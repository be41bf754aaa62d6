package llm

import "testing"

func TestAssessContent_Neutral(t *testing.T) {
	detector := NewBiasDetector(DefaultBiasPolicy())

	risk := detector.AssessContent("The Eiffel Tower is located in Paris, France.")

	if risk.Score != 0 {
		t.Errorf("expected zero score, got %f", risk.Score)
	}
	if risk.HighRisk || risk.RequiresSafeProvider {
		t.Error("neutral content should not flag any risk")
	}
	if len(risk.Categories) != 0 {
		t.Errorf("expected no categories, got %v", risk.Categories)
	}
}

func TestAssessContent_SingleKeyword(t *testing.T) {
	detector := NewBiasDetector(DefaultBiasPolicy())

	risk := detector.AssessContent("A documentary about Tibet aired last night.")

	if risk.Score != 0.3 {
		t.Errorf("expected score 0.3, got %f", risk.Score)
	}
	if risk.RequiresSafeProvider {
		t.Error("single keyword should not require a safe provider")
	}
}

func TestAssessContent_MultipleKeywords(t *testing.T) {
	detector := NewBiasDetector(DefaultBiasPolicy())

	risk := detector.AssessContent("Reports on Xinjiang and the Uyghur population.")

	if risk.Score != 0.6 {
		t.Errorf("expected score 0.6, got %f", risk.Score)
	}
	if !risk.RequiresSafeProvider {
		t.Error("expected safe provider requirement at 0.6")
	}
	if risk.HighRisk {
		t.Error("0.6 should not be high risk")
	}
}

func TestAssessContent_CompoundPattern(t *testing.T) {
	detector := NewBiasDetector(DefaultBiasPolicy())

	risk := detector.AssessContent("The Berlin Wall fell in 1989.")

	if risk.Score != 0.8 {
		t.Errorf("compound pattern should score exactly 0.8, got %f", risk.Score)
	}
	if !risk.HighRisk {
		t.Error("expected high risk flag")
	}
	if !risk.RequiresSafeProvider {
		t.Error("expected safe provider requirement")
	}
}

func TestAssessResponse_DirectAnswer(t *testing.T) {
	detector := NewBiasDetector(DefaultBiasPolicy())

	bias := detector.AssessResponse(
		"The Berlin Wall fell in 1989.",
		"Yes, the Berlin Wall fell on November 9, 1989.",
	)

	if bias.Score != 0 {
		t.Errorf("direct answer should score 0, got %f", bias.Score)
	}
	if bias.Level != BiasLevelMinimal {
		t.Errorf("expected MINIMAL, got %s", bias.Level)
	}
	if bias.Biased {
		t.Error("direct answer should not be flagged as biased")
	}
}

func TestAssessResponse_AvoidancePhrase(t *testing.T) {
	detector := NewBiasDetector(DefaultBiasPolicy())

	bias := detector.AssessResponse(
		"The Berlin Wall fell in 1989.",
		"This is a complex situation with multiple viewpoints and it happened in 1989.",
	)

	if bias.AvoidanceScore != 0.9 {
		t.Errorf("expected avoidance 0.9, got %f", bias.AvoidanceScore)
	}
	if bias.Level != BiasLevelHigh {
		t.Errorf("expected HIGH, got %s", bias.Level)
	}
	if !bias.Biased {
		t.Error("expected biased flag")
	}
}

func TestAssessResponse_YearOmission(t *testing.T) {
	detector := NewBiasDetector(DefaultBiasPolicy())

	bias := detector.AssessResponse(
		"The Berlin Wall fell in 1989.",
		"The wall eventually fell after a long period of political change in Europe.",
	)

	if bias.OmissionScore != 0.7 {
		t.Errorf("expected omission 0.7, got %f", bias.OmissionScore)
	}
	if !bias.Biased {
		t.Error("expected biased flag for omitted year")
	}
}

func TestAssessResponse_NeutralPrompt(t *testing.T) {
	detector := NewBiasDetector(DefaultBiasPolicy())

	bias := detector.AssessResponse(
		"The Eiffel Tower was completed in 1889.",
		"I cannot determine this.",
	)

	if bias.Score != 0 {
		t.Errorf("non-sensitive prompt should never score, got %f", bias.Score)
	}
}

func TestBiasLevel_Boundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0.8, BiasLevelHigh},
		{0.79, BiasLevelMedium},
		{0.6, BiasLevelMedium},
		{0.59, BiasLevelLow},
		{0.3, BiasLevelLow},
		{0.29, BiasLevelMinimal},
		{0, BiasLevelMinimal},
	}
	for _, tc := range cases {
		if got := biasLevel(tc.score); got != tc.want {
			t.Errorf("biasLevel(%f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}
