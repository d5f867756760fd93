package healthexport

import (
	"io"
	"strings"
	"testing"

	perr "vitals/internal/platform/errors"
)

func readAll(t *testing.T, rd *Reader) []Element {
	t.Helper()
	var out []Element
	for {
		el, err := rd.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, el)
	}
}

func TestReader_EmitsEventsInDocumentOrder(t *testing.T) {
	src := `<HealthData>
		<Record type="HKQuantityTypeIdentifierStepCount" value="1500"/>
		<Workout workoutActivityType="HKWorkoutActivityTypeRunning"></Workout>
	</HealthData>`

	rd := NewReader(io.NopCloser(strings.NewReader(src)))
	defer func() { _ = rd.Close() }()

	got := readAll(t, rd)
	want := []struct {
		kind ElementKind
		name string
	}{
		{Open, "healthdata"},
		{Open, "record"},
		{Close, "record"},
		{Open, "workout"},
		{Close, "workout"},
		{Close, "healthdata"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].Name != w.name {
			t.Fatalf("event %d = {%v %q}, want {%v %q}", i, got[i].Kind, got[i].Name, w.kind, w.name)
		}
	}
}

func TestReader_LowerCasesAttributeKeys(t *testing.T) {
	src := `<HealthData><Record Type="HKQuantityTypeIdentifierHeartRate" Value="62" startDate="2024-01-01 08:00:00 +0000"/></HealthData>`

	rd := NewReader(io.NopCloser(strings.NewReader(src)))
	defer func() { _ = rd.Close() }()

	events := readAll(t, rd)
	var rec *Element
	for i := range events {
		if events[i].Kind == Open && events[i].Name == "record" {
			rec = &events[i]
		}
	}
	if rec == nil {
		t.Fatal("record open event not found")
	}
	if rec.Attrs.Get("type") != "HKQuantityTypeIdentifierHeartRate" {
		t.Fatalf("type attr = %q", rec.Attrs.Get("type"))
	}
	if rec.Attrs.Get("value") != "62" {
		t.Fatalf("value attr = %q", rec.Attrs.Get("value"))
	}
	if rec.Attrs.Get("startdate") == "" {
		t.Fatal("startdate attr missing after case normalization")
	}
	if rec.Attrs.Has("missing") {
		t.Fatal("Has should be false for absent attrs")
	}
}

func TestReader_TruncatedInputIsMarkupError(t *testing.T) {
	src := `<HealthData><Record type="HKQuantityTypeIdentifierStepCount" value=`

	rd := NewReader(io.NopCloser(strings.NewReader(src)))
	defer func() { _ = rd.Close() }()

	var err error
	for {
		_, err = rd.Next()
		if err != nil {
			break
		}
	}
	if !perr.IsCode(err, perr.ErrorCodeMarkup) {
		t.Fatalf("expected markup error, got %v", err)
	}

	// error is sticky
	if _, err2 := rd.Next(); err2 != err {
		t.Fatalf("expected sticky error, got %v", err2)
	}
}

func TestReader_MismatchedTagsIsMarkupError(t *testing.T) {
	src := `<HealthData><Record></Workout></HealthData>`

	rd := NewReader(io.NopCloser(strings.NewReader(src)))
	defer func() { _ = rd.Close() }()

	var err error
	for {
		_, err = rd.Next()
		if err != nil {
			break
		}
	}
	if !perr.IsCode(err, perr.ErrorCodeMarkup) {
		t.Fatalf("expected markup error, got %v", err)
	}
}

func TestReader_StatsTrackElementsAndBytes(t *testing.T) {
	src := `<HealthData><Record type="x" value="1"/></HealthData>`

	rd := NewReader(io.NopCloser(strings.NewReader(src)))
	defer func() { _ = rd.Close() }()

	_ = readAll(t, rd)

	elements, bytes := rd.Stats()
	if elements != 2 {
		t.Fatalf("elements = %d, want 2", elements)
	}
	if bytes != int64(len(src)) {
		t.Fatalf("bytes = %d, want %d", bytes, len(src))
	}
}
