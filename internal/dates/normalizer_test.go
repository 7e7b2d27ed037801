package dates

import (
	"testing"
	"time"
)

func tokyo(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewInZone(DefaultTimezone)
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}
	return n
}

func TestNormalize(t *testing.T) {
	n := tokyo(t)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "rfc3339 passes through",
			input: "2022-05-31T20:00:00Z",
			want:  "2022-05-31T20:00:00Z",
		},
		{
			name:  "canonical form passes through",
			input: "2022/5/31 20:00:00",
			want:  "2022/5/31 20:00:00",
		},
		{
			name:  "plain date passes through",
			input: "2022-05-31",
			want:  "2022-05-31",
		},
		{
			name:  "iso minutes passes through",
			input: "2022-05-31T20:00",
			want:  "2022-05-31T20:00",
		},
		{
			name:  "iso minutes with offset passes through",
			input: "2022-05-31T20:00+09:00",
			want:  "2022-05-31T20:00+09:00",
		},
		{
			name:  "iso minutes utc passes through",
			input: "2022-05-31T20:00Z",
			want:  "2022-05-31T20:00Z",
		},
		{
			name:  "space separated minutes passes through",
			input: "2022-05-31 20:00",
			want:  "2022-05-31 20:00",
		},
		{
			name:  "fractional seconds with offset passes through",
			input: "2022-05-31T20:00:00.000+09:00",
			want:  "2022-05-31T20:00:00.000+09:00",
		},
		{
			name:  "year and month passes through",
			input: "2022-05",
			want:  "2022-05",
		},
		{
			name:  "year only passes through",
			input: "2022",
			want:  "2022",
		},
		{
			name:  "month name with minutes passes through",
			input: "May 31, 2022 20:00",
			want:  "May 31, 2022 20:00",
		},
		{
			name:  "long month name with minutes passes through",
			input: "December 31, 2022 23:59",
			want:  "December 31, 2022 23:59",
		},
		{
			name:  "month name with spaced meridiem passes through",
			input: "May 31, 2022 8:00 PM",
			want:  "May 31, 2022 8:00 PM",
		},
		{
			name:  "evening PM",
			input: "May 31, 2022 at 08:00PM",
			want:  "2022/5/31 20:00:00",
		},
		{
			name:  "morning AM",
			input: "June 1, 2022 at 09:05AM",
			want:  "2022/6/1 09:05:00",
		},
		{
			name:  "single digit hour",
			input: "Jun 1, 2022 at 9:05AM",
			want:  "2022/6/1 09:05:00",
		},
		{
			name:  "midnight AM is pulled back",
			input: "May 31, 2022 at 12:15AM",
			want:  "2022/5/31 00:15:00",
		},
		{
			name:  "noon PM always adds twelve hours",
			input: "May 31, 2022 at 12:30PM",
			want:  "2022/6/1 00:30:00",
		},
		{
			name:  "late PM stays on the same day",
			input: "December 31, 2022 at 11:59PM",
			want:  "2022/12/31 23:59:00",
		},
		{
			name:  "space before meridiem",
			input: "May 31, 2022 at 08:00 PM",
			want:  "2022/5/31 20:00:00",
		},
		{
			name:  "garbage",
			input: "garbage",
			want:  "",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "pattern match but unparseable date",
			input: "Someday 99, 2022 at 08:00PM",
			want:  "",
		},
		{
			name:  "pattern match but hour out of range",
			input: "May 31, 2022 at 25:00PM",
			want:  "",
		},
		{
			name:  "missing meridiem",
			input: "May 31, 2022 at 08:00",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := tokyo(t)

	inputs := []string{
		"May 31, 2022 at 08:00PM",
		"May 31, 2022 at 12:15AM",
		"2022-05-31T20:00:00Z",
		"2022-05-31T20:00",
		"May 31, 2022 8:00 PM",
	}
	for _, in := range inputs {
		once := n.Normalize(in)
		if twice := n.Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestFormatUsesPinnedZone(t *testing.T) {
	n := tokyo(t)

	instant := time.Date(2022, 5, 31, 11, 0, 0, 0, time.UTC)
	if got, want := n.Format(instant), "2022/5/31 20:00:00"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestNewDefaultsToUTC(t *testing.T) {
	n := New(nil)
	if n.Location() != time.UTC {
		t.Errorf("Location() = %v, want UTC", n.Location())
	}
	if got, want := n.Normalize("May 31, 2022 at 08:00PM"), "2022/5/31 20:00:00"; got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNewInZoneRejectsUnknownZone(t *testing.T) {
	if _, err := NewInZone("Not/AZone"); err == nil {
		t.Error("NewInZone() = nil error, want error for unknown zone")
	}
}
