package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder(t *testing.T) {
	Convey("Given a recorder on its own registry", t, func() {
		r := NewRecorder(WithNamespace("test"))

		Convey("When recommendations are written", func() {
			r.Recommendation(OutcomeInserted)
			r.Recommendation(OutcomeInserted)
			r.Recommendation(OutcomeSkipped)

			Convey("Then counters are split by outcome", func() {
				So(testutil.ToFloat64(r.recommendations.WithLabelValues(OutcomeInserted)), ShouldEqual, 2)
				So(testutil.ToFloat64(r.recommendations.WithLabelValues(OutcomeSkipped)), ShouldEqual, 1)
			})
		})

		Convey("When a run fails", func() {
			r.RunFinished("handicap", errors.New("boom"), 2*time.Second)

			Convey("Then the error status is counted", func() {
				So(testutil.ToFloat64(r.runsTotal.WithLabelValues("handicap", OutcomeError)), ShouldEqual, 1)
				So(testutil.ToFloat64(r.runsTotal.WithLabelValues("handicap", OutcomeOK)), ShouldEqual, 0)
			})
		})

		Convey("When AI results and breaker state are recorded", func() {
			r.AIResult(true)
			r.AIResult(false)
			r.BreakerOpen("ai", true)

			So(testutil.ToFloat64(r.aiResults.WithLabelValues(OutcomeFallback)), ShouldEqual, 1)
			So(testutil.ToFloat64(r.breakerOpen.WithLabelValues("ai")), ShouldEqual, 1)
		})

		Convey("The handler exposes the namespace", func() {
			r.ClashDetected()
			rec := httptest.NewRecorder()
			r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

			So(rec.Code, ShouldEqual, 200)
			So(strings.Contains(rec.Body.String(), "test_style_clashes_total 1"), ShouldBeTrue)
		})
	})
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.Recommendation(OutcomeFailed)
	r.RunFinished("tips", nil, time.Second)
	r.AIRequest("m", nil)
	r.Notification(nil)
	r.Suppressed(3)
	if r.Registry() != nil {
		t.Error("nil recorder has no registry")
	}
}
