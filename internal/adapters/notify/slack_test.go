package notify_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/inmeta/pitwall/internal/adapters/notify"
	"github.com/inmeta/pitwall/internal/domain/laptime"
	"github.com/inmeta/pitwall/internal/domain/milestone"
	"github.com/inmeta/pitwall/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleMilestone() milestone.Milestone {
	return milestone.Milestone{
		Kind:       milestone.KindOverallRecord,
		PlayerID:   "p1",
		PlayerName: "Kari Nordmann",
		ImageURL:   "https://cdn.example/kari.png",
		Time:       laptime.LapTime{Minutes: 1, Seconds: 15, Millis: 0},
	}
}

func TestSlackWebhookDelivery(t *testing.T) {
	Convey("Given a webhook endpoint", t, func() {
		var gotBody []byte
		var gotContentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			gotContentType = r.Header.Get("Content-Type")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		hook, err := notify.NewSlackWebhook(srv.URL)
		So(err, ShouldBeNil)

		Convey("When delivering an overall-record milestone", func() {
			err := hook.NotifyMilestone(context.Background(), sampleMilestone())

			Convey("Then the webhook receives a JSON block payload", func() {
				So(err, ShouldBeNil)
				So(gotContentType, ShouldEqual, "application/json")

				var msg notify.Message
				So(json.Unmarshal(gotBody, &msg), ShouldBeNil)
				So(msg.Blocks, ShouldHaveLength, 2)
				So(msg.Blocks[0].Type, ShouldEqual, "section")
				So(msg.Blocks[0].Text.Text, ShouldContainSubstring, "overall record")
				So(msg.Blocks[1].Type, ShouldEqual, "context")
			})

			Convey("Then the player line carries image, name and formatted time", func() {
				var msg notify.Message
				So(json.Unmarshal(gotBody, &msg), ShouldBeNil)

				elems := msg.Blocks[1].Elements
				So(elems[0].Type, ShouldEqual, "image")
				So(elems[0].ImageURL, ShouldEqual, "https://cdn.example/kari.png")
				So(elems[1].Text, ShouldEqual, "*Kari Nordmann*")
				So(elems[len(elems)-1].Text, ShouldEqual, "*1.15:000*")
			})
		})
	})
}

func TestSlackWebhookFailures(t *testing.T) {
	Convey("Given webhook failure modes", t, func() {
		Convey("When the endpoint rejects the post", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))
			defer srv.Close()

			hook, err := notify.NewSlackWebhook(srv.URL)
			So(err, ShouldBeNil)

			err = hook.NotifyMilestone(context.Background(), sampleMilestone())

			Convey("Then delivery fails with ErrDeliveryFailed", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, notify.ErrDeliveryFailed)
			})
		})

		Convey("When the webhook URL is missing", func() {
			_, err := notify.NewSlackWebhook("")

			Convey("Then construction fails with ErrNotConfigured", func() {
				So(err, ShouldEqual, notify.ErrNotConfigured)
			})
		})
	})
}

func TestBuildMilestoneMessage(t *testing.T) {
	Convey("Given milestone kinds", t, func() {
		Convey("When building each kind's message", func() {
			cases := map[milestone.Kind]string{
				milestone.KindPersonalBest:  "Personal best",
				milestone.KindOverallRecord: "overall record",
				milestone.KindFirstTime:     "First time",
			}

			Convey("Then the headline names the milestone", func() {
				for kind, want := range cases {
					m := sampleMilestone()
					m.Kind = kind
					msg := notify.BuildMilestoneMessage(m)
					So(msg.Blocks[0].Text.Text, ShouldContainSubstring, want)
				}
			})
		})

		Convey("When the player has no picture", func() {
			m := sampleMilestone()
			m.ImageURL = ""
			msg := notify.BuildMilestoneMessage(m)

			Convey("Then no image element is emitted", func() {
				for _, e := range msg.Blocks[1].Elements {
					So(e.Type, ShouldNotEqual, "image")
				}
			})
		})
	})
}

func TestBuildLeaderboardMessage(t *testing.T) {
	Convey("Given a ranked board", t, func() {
		board := types.Board{
			Rows: []types.Row{
				{Position: 1, PlayerName: "Kari Nordmann", ImageURL: "https://cdn.example/kari.png", Time: "1.15:000"},
				{Position: 2, PlayerName: "Ola Nordmann", Time: "1.20:500"},
			},
			AverageTime: "1.17:750",
		}

		Convey("When building the digest message", func() {
			msg := notify.BuildLeaderboardMessage(board, "https://example.test/")

			Convey("Then it opens with a header and lists every row", func() {
				So(msg.Blocks[0].Type, ShouldEqual, "header")
				So(msg.Blocks[0].Text.Text, ShouldEqual, "Leaderboard")
				So(msg.Blocks[1].Type, ShouldEqual, "context")
				So(msg.Blocks[2].Type, ShouldEqual, "context")
			})

			Convey("Then it closes with a link to the live overview", func() {
				last := msg.Blocks[len(msg.Blocks)-1]
				So(last.Type, ShouldEqual, "section")
				So(last.Accessory, ShouldNotBeNil)
				So(last.Accessory.URL, ShouldEqual, "https://example.test/")
			})
		})
	})
}
