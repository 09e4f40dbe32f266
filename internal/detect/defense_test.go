package detect

import "testing"

func TestDefenseDenialTaggedPrimitive(t *testing.T) {
	d := NewDefenseDetector()
	findings := d.Detect("У меня нет проблем, все нормально, правда")

	f, ok := findCategory(findings, "denial")
	if !ok {
		t.Fatalf("expected denial, got %v", findings)
	}
	if f.Maturity != MaturityPrimitive {
		t.Fatalf("denial must be primitive, got %s", f.Maturity)
	}
	if f.Explanation == "" {
		t.Fatal("expected an explanation")
	}
}

func TestDefenseRationalizationTaggedNeurotic(t *testing.T) {
	d := NewDefenseDetector()
	findings := d.Detect("It's for the best anyway, I didn't want it anyway")

	f, ok := findCategory(findings, "rationalization")
	if !ok {
		t.Fatalf("expected rationalization, got %v", findings)
	}
	if f.Maturity != MaturityNeurotic {
		t.Fatalf("rationalization must be neurotic, got %s", f.Maturity)
	}
}

func TestDefenseSublimationTaggedMature(t *testing.T) {
	d := NewDefenseDetector()
	findings := d.Detect("Когда плохо, я ушел с головой в работу")

	f, ok := findCategory(findings, "sublimation")
	if !ok {
		t.Fatalf("expected sublimation, got %v", findings)
	}
	if f.Maturity != MaturityMature {
		t.Fatalf("sublimation must be mature, got %s", f.Maturity)
	}
}

func TestDefenseDisplacement(t *testing.T) {
	d := NewDefenseDetector()
	findings := d.Detect("После работы я сорвался на жену, хотя злился на начальника")
	if _, ok := findCategory(findings, "displacement"); !ok {
		t.Fatalf("expected displacement, got %v", findings)
	}
}

func TestDefenseEveryCategoryHasMaturity(t *testing.T) {
	for _, cat := range defenseCatalog {
		if _, ok := defenseMaturity[cat.Name]; !ok {
			t.Errorf("category %s missing maturity tag", cat.Name)
		}
		if _, ok := defenseExplanations[cat.Name]; !ok {
			t.Errorf("category %s missing explanation", cat.Name)
		}
	}
}

func TestDefenseNeutralTextClean(t *testing.T) {
	d := NewDefenseDetector()
	if findings := d.Detect("Мы обсудили планы на отпуск и выбрали маршрут"); len(findings) != 0 {
		t.Fatalf("expected no findings, got %v", findings)
	}
}
