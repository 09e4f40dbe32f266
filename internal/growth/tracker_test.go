package growth

import "testing"

func TestIdentifyCreatesAreaAtInitialProgress(t *testing.T) {
	tr := NewTracker()
	matched := tr.Identify("u1", "Я ненавижу себя и ругаю себя за все подряд")

	if len(matched) != 1 || matched[0] != "self_compassion" {
		t.Fatalf("expected self_compassion, got %v", matched)
	}
	areas := tr.Areas("u1")
	if len(areas) != 1 {
		t.Fatalf("expected one area, got %d", len(areas))
	}
	a := areas[0]
	if a.Progress != initialProgress {
		t.Fatalf("expected initial progress %.2f, got %.2f", initialProgress, a.Progress)
	}
	if a.Category != "self_relation" {
		t.Fatalf("expected self_relation category, got %s", a.Category)
	}
	if len(a.Evidence) != 1 {
		t.Fatalf("expected one evidence entry, got %v", a.Evidence)
	}
}

func TestIdentifyExistingAreaNotReset(t *testing.T) {
	tr := NewTracker()
	tr.Identify("u1", "Не могу отказать никому на работе")
	tr.Measure("u1", "Вчера я сказал нет коллеге, и ничего страшного")

	matched := tr.Identify("u1", "Опять не могу отказать, соглашаюсь на все")
	if len(matched) != 1 || matched[0] != "boundary_setting" {
		t.Fatalf("expected boundary_setting rematch, got %v", matched)
	}
	areas := tr.Areas("u1")
	if areas[0].Progress == initialProgress {
		t.Fatal("re-identification must not reset accumulated progress")
	}
}

func TestMeasureDeltaSign(t *testing.T) {
	tr := NewTracker()
	tr.Identify("u1", "Не понимаю, что чувствую, внутри пустота")

	ms := tr.Measure("u1", "Сегодня я заметил, что злюсь, и понял, что я чувствую")
	if len(ms) != 1 {
		t.Fatalf("expected one measurement, got %v", ms)
	}
	m := ms[0]
	if m.PositiveMatches != 2 || m.NegativeMatches != 0 {
		t.Fatalf("expected 2 positive matches, got %+v", m)
	}
	if m.Delta != 2*deltaPerMatch {
		t.Fatalf("expected delta %.2f, got %.2f", 2*deltaPerMatch, m.Delta)
	}
	if m.Progress != initialProgress+2*deltaPerMatch {
		t.Fatalf("expected progress %.2f, got %.2f", initialProgress+2*deltaPerMatch, m.Progress)
	}

	ms = tr.Measure("u1", "Опять ничего не чувствую, как будто отключен от себя")
	if ms[0].Delta != -2*deltaPerMatch {
		t.Fatalf("expected negative delta, got %+v", ms[0])
	}
}

func TestMeasureClampsProgress(t *testing.T) {
	tr := NewTracker()
	tr.Identify("u1", "Мне нужно все контролировать, паникую без плана")

	for i := 0; i < 30; i++ {
		tr.Measure("u1", "Я отпустил контроль и решил посмотреть, как пойдет")
	}
	areas := tr.Areas("u1")
	if areas[0].Progress != 1 {
		t.Fatalf("progress must clamp at 1, got %.2f", areas[0].Progress)
	}

	for i := 0; i < 30; i++ {
		tr.Measure("u1", "Мне нужно все контролировать, не выношу неопределенность")
	}
	areas = tr.Areas("u1")
	if areas[0].Progress != 0 {
		t.Fatalf("progress must clamp at 0, got %.2f", areas[0].Progress)
	}
}

func TestMeasureNeutralTextNoDelta(t *testing.T) {
	tr := NewTracker()
	tr.Identify("u1", "Боюсь высказаться на собраниях")

	ms := tr.Measure("u1", "Сегодня на обед была паста")
	if len(ms) != 1 || ms[0].Delta != 0 {
		t.Fatalf("expected zero delta on neutral text, got %v", ms)
	}
}

func TestMeasureWithoutAreasNil(t *testing.T) {
	tr := NewTracker()
	if ms := tr.Measure("u1", "Я сказал нет и отстоял свою позицию"); ms != nil {
		t.Fatalf("expected nil without tracked areas, got %v", ms)
	}
}

func TestEvidenceRingCap(t *testing.T) {
	tr := NewTracker()
	tr.Identify("u1", "Вечно сомневаюсь, переспрашиваю у всех")

	for i := 0; i < evidenceCap+4; i++ {
		tr.Measure("u1", "Я принял решение сам и доверился своему чутью")
	}
	areas := tr.Areas("u1")
	if got := len(areas[0].Evidence); got != evidenceCap {
		t.Fatalf("expected evidence capped at %d, got %d", evidenceCap, got)
	}
}

func TestSummaryAggregatesByCategory(t *testing.T) {
	tr := NewTracker()
	tr.Identify("u1", "Ненавижу себя и не доверяю своим решениям")
	tr.Identify("u1", "Не могу отказать людям")

	sums := tr.Summary("u1")
	if len(sums) != 2 {
		t.Fatalf("expected two categories, got %v", sums)
	}
	// Sorted by category: relational before self_relation.
	if sums[0].Category != "relational" || sums[0].Areas != 1 {
		t.Fatalf("unexpected first summary: %+v", sums[0])
	}
	if sums[1].Category != "self_relation" || sums[1].Areas != 2 {
		t.Fatalf("unexpected second summary: %+v", sums[1])
	}
	if sums[1].MeanProgress != initialProgress {
		t.Fatalf("expected mean %.2f, got %.2f", initialProgress, sums[1].MeanProgress)
	}
}

func TestRestoreTrimsEvidence(t *testing.T) {
	tr := NewTracker()
	evidence := make([]string, evidenceCap+3)
	for i := range evidence {
		evidence[i] = "e"
	}
	tr.Restore("u1", []Area{{AreaID: "self_trust", Category: "self_relation", Progress: 0.7, Evidence: evidence}})

	areas := tr.Areas("u1")
	if len(areas) != 1 || areas[0].Progress != 0.7 {
		t.Fatalf("restore failed: %v", areas)
	}
	if len(areas[0].Evidence) != evidenceCap {
		t.Fatalf("expected trimmed evidence, got %d", len(areas[0].Evidence))
	}
}
