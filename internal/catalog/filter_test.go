package catalog

import (
	"testing"

	"github.com/existflow/unicompass/internal/model"
)

func TestMatch(t *testing.T) {
	mit := model.University{
		ID: 1, Name: "MIT", Country: "USA", City: "Cambridge",
		CourseOffered: "Computer Science", DegreeLevel: "both",
		TuitionFee: "55000", ApplicationFee: "75",
	}
	berlin := model.University{
		ID: 3, Name: "TU Berlin", Country: "Germany", City: "Berlin",
		CourseOffered: "Computer Science", DegreeLevel: "bachelor",
		TuitionFee: "", ApplicationFee: "0",
	}

	tests := []struct {
		name    string
		u       model.University
		query   string
		filters FilterSet
		want    bool
	}{
		{"no constraints", mit, "", FilterSet{}, true},
		{"query hits name", mit, "mit", FilterSet{}, true},
		{"query hits country", mit, "usa", FilterSet{}, true},
		{"query hits course", mit, "computer", FilterSet{}, true},
		{"query misses", mit, "oxford", FilterSet{}, false},
		{"country exact fold", mit, "", FilterSet{Country: "usa"}, true},
		{"country mismatch", mit, "", FilterSet{Country: "Canada"}, false},
		{"city fold", berlin, "", FilterSet{City: "berlin"}, true},
		{"course substring", mit, "", FilterSet{Course: "science"}, true},
		{"degree fold", berlin, "", FilterSet{Degree: "Bachelor"}, true},
		{"degree mismatch", berlin, "", FilterSet{Degree: "master"}, false},
		{"tuition within bound", berlin, "", FilterSet{MaxTuition: ""}, true},
		{"tuition over bound", mit, "", FilterSet{MaxTuition: "15000"}, false},
		{"tuition under bound", mit, "", FilterSet{MaxTuition: "60000"}, true},
		{"missing fee excluded under bound", berlin, "", FilterSet{MaxTuition: "15000"}, false},
		{"missing fee fine without bound", berlin, "", FilterSet{}, true},
		{"non-numeric bound is no constraint", berlin, "", FilterSet{MaxTuition: "cheap"}, true},
		{"app fee at bound", mit, "", FilterSet{MaxAppFee: "75"}, true},
		{"app fee over bound", mit, "", FilterSet{MaxAppFee: "50"}, false},
		{"query and filter together", mit, "computer", FilterSet{Country: "USA"}, true},
		{"query hits but filter rejects", mit, "computer", FilterSet{Country: "Germany"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Match(tc.u, tc.query, tc.filters); got != tc.want {
				t.Errorf("Match() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterAllKeepsInputOrder(t *testing.T) {
	list := fixtureUniversities()

	out := FilterAll(list, "", FilterSet{Degree: "both"})
	if len(out) != 2 {
		t.Fatalf("matches: %d", len(out))
	}
	if out[0].Name != "MIT" || out[1].Name != "University of Toronto" {
		t.Errorf("order changed: %q, %q", out[0].Name, out[1].Name)
	}

	if got := FilterAll(list, "", FilterSet{Country: "Atlantis"}); len(got) != 0 {
		t.Errorf("phantom matches: %d", len(got))
	}
}

func TestFilterAllMaxTuition(t *testing.T) {
	list := []model.University{
		{ID: 1, Name: "A", TuitionFee: "5000"},
		{ID: 2, Name: "B", TuitionFee: "15000"},
		{ID: 3, Name: "C", TuitionFee: ""},
	}

	out := FilterAll(list, "", FilterSet{MaxTuition: "10000"})
	if len(out) != 1 || out[0].ID != 1 {
		t.Errorf("bound filter: %+v", out)
	}
}

func TestFilterSetIsZero(t *testing.T) {
	if !(FilterSet{}).IsZero() {
		t.Error("empty set not zero")
	}
	if (FilterSet{MaxTuition: "5000"}).IsZero() {
		t.Error("bound set reported zero")
	}
}
