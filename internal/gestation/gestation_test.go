package gestation

import (
	"testing"
	"time"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestEDDFromLMP(t *testing.T) {
	cases := map[string]string{
		"2024-01-01": "2024-10-07",
		"2023-05-15": "2024-02-19",
		"2024-12-31": "2025-10-07",
	}
	for lmp, want := range cases {
		got := FormatDate(EDDFromLMP(date(t, lmp)))
		if got != want {
			t.Errorf("EDDFromLMP(%s) = %s, want %s", lmp, got, want)
		}
	}
}

func TestEDDFromLMP_AlwaysAdds280Days(t *testing.T) {
	start := date(t, "2020-01-01")
	for i := 0; i < 2000; i += 13 {
		lmp := start.AddDate(0, 0, i)
		edd := EDDFromLMP(lmp)
		if days := int(edd.Sub(lmp).Hours() / 24); days != TermDays {
			t.Fatalf("EDDFromLMP(%s) is %d days later, want %d", FormatDate(lmp), days, TermDays)
		}
	}
}

func TestAgeAt_RoundTripFromLMP(t *testing.T) {
	lmp := date(t, "2024-01-01")
	age := AgeAt(EDDFromLMP(lmp), lmp)
	if age != (Age{}) {
		t.Errorf("AgeAt(EDD, LMP) = %+v, want zero", age)
	}
}

func TestAgeAt_Scenario(t *testing.T) {
	edd := date(t, "2024-10-07")
	lmp := date(t, "2024-01-01")

	got := AgeAt(edd, lmp.AddDate(0, 0, 140))
	want := Age{Weeks: 20, Days: 0, TotalDays: 140}
	if got != want {
		t.Errorf("AgeAt 140 days after LMP = %+v, want %+v", got, want)
	}

	got = AgeAt(edd, lmp.AddDate(0, 0, 61))
	want = Age{Weeks: 8, Days: 5, TotalDays: 61}
	if got != want {
		t.Errorf("AgeAt 61 days after LMP = %+v, want %+v", got, want)
	}
}

func TestAgeAt_BeforeDueDateProperty(t *testing.T) {
	edd := date(t, "2025-06-30")
	for back := 0; back <= TermDays; back++ {
		now := edd.AddDate(0, 0, -back)
		age := AgeAt(edd, now)
		if age.TotalDays != TermDays-back {
			t.Fatalf("AgeAt(edd, edd-%d).TotalDays = %d, want %d", back, age.TotalDays, TermDays-back)
		}
		if age.Weeks*7+age.Days != age.TotalDays {
			t.Fatalf("AgeAt(edd, edd-%d) = %+v, weeks*7+days != totalDays", back, age)
		}
	}
}

func TestAgeAt_NeverNegative(t *testing.T) {
	edd := date(t, "2025-06-30")
	for _, offset := range []int{-10000, -1000, -281, -290, 0, 1, 500, 10000} {
		age := AgeAt(edd, edd.AddDate(0, 0, offset))
		if age.Weeks < 0 || age.Days < 0 || age.TotalDays < 0 {
			t.Errorf("AgeAt offset %d = %+v, has negative field", offset, age)
		}
	}

	if age := AgeAt(edd, edd.AddDate(0, 0, -300)); age != (Age{}) {
		t.Errorf("AgeAt 300 days before EDD = %+v, want zero", age)
	}
}

func TestAgeAt_NoUpperClamp(t *testing.T) {
	edd := date(t, "2025-06-30")
	got := AgeAt(edd, edd.AddDate(0, 0, 17))
	want := Age{Weeks: 42, Days: 3, TotalDays: 297}
	if got != want {
		t.Errorf("AgeAt 17 days past EDD = %+v, want %+v", got, want)
	}
}

func TestAgeAt_IgnoresTimeOfDay(t *testing.T) {
	edd := date(t, "2024-10-07")
	morning := time.Date(2024, 5, 20, 0, 0, 1, 0, time.UTC)
	evening := time.Date(2024, 5, 20, 23, 59, 59, 0, time.UTC)
	if a, b := AgeAt(edd, morning), AgeAt(edd, evening); a != b {
		t.Errorf("AgeAt differs within a day: %+v vs %+v", a, b)
	}
}

func TestAge_String(t *testing.T) {
	if got := (Age{Weeks: 20, Days: 3, TotalDays: 143}).String(); got != "20 weeks, 3 days" {
		t.Errorf("String() = %q", got)
	}
	if got := (Age{}).String(); got != "0 weeks, 0 days" {
		t.Errorf("zero String() = %q", got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	for _, s := range []string{"", "2024/01/01", "2024-1-1", "2024-13-01", "2024-02-30", "not-a-date"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", s)
		}
	}
}

func TestWeeks(t *testing.T) {
	weeks := Weeks(date(t, "2024-10-07"))
	if len(weeks) != TermWeeks {
		t.Fatalf("len(Weeks) = %d, want %d", len(weeks), TermWeeks)
	}
	if first := weeks[0]; FormatDate(first.Start) != "2024-01-01" || FormatDate(first.End) != "2024-01-07" {
		t.Errorf("week 1 = %s..%s", FormatDate(first.Start), FormatDate(first.End))
	}
	if last := weeks[TermWeeks-1]; last.Number != 40 || FormatDate(last.End) != "2024-10-06" {
		t.Errorf("week 40 = #%d ending %s", last.Number, FormatDate(last.End))
	}
}
