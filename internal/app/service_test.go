package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/inmeta/pitwall/internal/adapters/directory"
	service "github.com/inmeta/pitwall/internal/app"
	"github.com/inmeta/pitwall/internal/domain/laptime"
	"github.com/inmeta/pitwall/internal/domain/milestone"
	"github.com/inmeta/pitwall/internal/domain/model"
	"github.com/inmeta/pitwall/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// staticDirectory serves a fixed roster.
type staticDirectory struct {
	players []model.Player
	err     error
}

func (d *staticDirectory) ListPlayers(_ context.Context) ([]model.Player, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.players, nil
}

// capturingNotifier records delivered milestones.
type capturingNotifier struct {
	mu        sync.Mutex
	delivered []milestone.Milestone
}

func (n *capturingNotifier) NotifyMilestone(_ context.Context, m milestone.Milestone) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.delivered = append(n.delivered, m)
	return nil
}

func (n *capturingNotifier) snapshot() []milestone.Milestone {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]milestone.Milestone, len(n.delivered))
	copy(out, n.delivered)
	return out
}

func waitForDeliveries(notifier *capturingNotifier, n int) []milestone.Milestone {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := notifier.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	return notifier.snapshot()
}

func testRoster() *staticDirectory {
	return &staticDirectory{players: []model.Player{
		{ID: "p1", FirstName: "Kari", LastName: "Nordmann", ImageURL: "https://cdn.example/kari.png"},
		{ID: "p2", FirstName: "Ola", LastName: "Nordmann"},
	}}
}

func lap(min, sec, ms int) laptime.LapTime {
	return laptime.LapTime{Minutes: min, Seconds: sec, Millis: ms}
}

func startService(opts ...service.Option) *service.Service {
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestServiceSubmitScore(t *testing.T) {
	Convey("Given a started service", t, func() {
		notifier := &capturingNotifier{}
		svc := startService(
			service.WithDirectory(testRoster()),
			service.WithNotifier(notifier),
		)
		defer svc.Stop()
		ctx := context.Background()

		Convey("When submitting a valid first score", func() {
			stored, err := svc.SubmitScore(ctx, "p1", lap(1, 30, 0))

			Convey("Then the score is stored with an id", func() {
				So(err, ShouldBeNil)
				So(stored.ID, ShouldBeGreaterThan, 0)
				So(stored.PlayerID, ShouldEqual, "p1")
			})

			Convey("Then a first-time milestone is delivered with roster data", func() {
				delivered := waitForDeliveries(notifier, 1)
				So(delivered, ShouldHaveLength, 1)
				So(delivered[0].Kind, ShouldEqual, milestone.KindFirstTime)
				So(delivered[0].PlayerName, ShouldEqual, "Kari Nordmann")
				So(delivered[0].ImageURL, ShouldEqual, "https://cdn.example/kari.png")
				So(delivered[0].FormattedTime(), ShouldEqual, "1.30:000")
			})
		})

		Convey("When a submission is out of range", func() {
			_, err := svc.SubmitScore(ctx, "p1", lap(1, 60, 0))

			Convey("Then it fails validation and writes nothing", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, laptime.ErrInvalid)

				scores, err := svc.Scores(ctx)
				So(err, ShouldBeNil)
				So(scores, ShouldBeEmpty)
				So(waitForDeliveries(notifier, 0), ShouldBeEmpty)
			})
		})

		Convey("When a player resubmits", func() {
			first, err := svc.SubmitScore(ctx, "p1", lap(1, 30, 0))
			So(err, ShouldBeNil)

			Convey("And the new time is faster", func() {
				second, err := svc.SubmitScore(ctx, "p1", lap(1, 25, 0))

				Convey("Then the row is replaced and a personal best fires", func() {
					So(err, ShouldBeNil)
					So(second.ID, ShouldEqual, first.ID)

					scores, err := svc.Scores(ctx)
					So(err, ShouldBeNil)
					So(scores, ShouldHaveLength, 1)

					delivered := waitForDeliveries(notifier, 2)
					So(delivered, ShouldHaveLength, 2)
					So(delivered[1].Kind, ShouldEqual, milestone.KindPersonalBest)
				})
			})

			Convey("And the new time is slower", func() {
				_, err := svc.SubmitScore(ctx, "p1", lap(1, 40, 0))

				Convey("Then the slower time is stored without a milestone", func() {
					So(err, ShouldBeNil)

					scores, err := svc.Scores(ctx)
					So(err, ShouldBeNil)
					So(scores[0].Minutes, ShouldEqual, 1)
					So(scores[0].Seconds, ShouldEqual, 40)

					delivered := waitForDeliveries(notifier, 1)
					So(delivered, ShouldHaveLength, 1)
					So(delivered[0].Kind, ShouldEqual, milestone.KindFirstTime)
				})
			})
		})

		Convey("When a newcomer beats the field best", func() {
			_, err := svc.SubmitScore(ctx, "p1", lap(1, 20, 0))
			So(err, ShouldBeNil)
			_, err = svc.SubmitScore(ctx, "p2", lap(1, 15, 0))
			So(err, ShouldBeNil)

			Convey("Then an overall record milestone fires", func() {
				delivered := waitForDeliveries(notifier, 2)
				So(delivered, ShouldHaveLength, 2)
				So(delivered[1].Kind, ShouldEqual, milestone.KindOverallRecord)
				So(delivered[1].PlayerName, ShouldEqual, "Ola Nordmann")
			})
		})

		Convey("When the roster is unavailable during a milestone", func() {
			failing := &staticDirectory{err: directory.ErrFetchFailed}
			degraded := startService(
				service.WithDirectory(failing),
				service.WithNotifier(notifier),
			)
			defer degraded.Stop()

			stored, err := degraded.SubmitScore(ctx, "p9", lap(1, 30, 0))

			Convey("Then the write succeeds and the message degrades to the id", func() {
				So(err, ShouldBeNil)
				So(stored.PlayerID, ShouldEqual, "p9")

				delivered := waitForDeliveries(notifier, 1)
				So(delivered, ShouldNotBeEmpty)
				So(delivered[len(delivered)-1].PlayerName, ShouldEqual, "p9")
			})
		})
	})
}

func TestServiceDeleteScore(t *testing.T) {
	Convey("Given a service with one stored score", t, func() {
		svc := startService(service.WithDirectory(testRoster()))
		defer svc.Stop()
		ctx := context.Background()

		stored, err := svc.SubmitScore(ctx, "p1", lap(1, 30, 0))
		So(err, ShouldBeNil)

		Convey("When deleting it", func() {
			deleted, err := svc.DeleteScore(ctx, stored.ID)

			Convey("Then the deleted row is returned and the board empties", func() {
				So(err, ShouldBeNil)
				So(deleted.ID, ShouldEqual, stored.ID)

				scores, err := svc.Scores(ctx)
				So(err, ShouldBeNil)
				So(scores, ShouldBeEmpty)
			})
		})

		Convey("When deleting an unknown id", func() {
			_, err := svc.DeleteScore(ctx, 999)

			Convey("Then the error surfaces to the caller", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestServiceLeaderboard(t *testing.T) {
	Convey("Given a service with several scores", t, func() {
		svc := startService(service.WithDirectory(testRoster()))
		defer svc.Stop()
		ctx := context.Background()

		_, err := svc.SubmitScore(ctx, "p1", lap(1, 23, 500))
		So(err, ShouldBeNil)
		_, err = svc.SubmitScore(ctx, "p2", lap(1, 20, 0))
		So(err, ShouldBeNil)

		Convey("When reading the leaderboard", func() {
			board, err := svc.Leaderboard(ctx)

			Convey("Then rows are ranked with names, times and gaps", func() {
				So(err, ShouldBeNil)
				So(board.Rows, ShouldHaveLength, 2)

				So(board.Rows[0].Position, ShouldEqual, 1)
				So(board.Rows[0].PlayerName, ShouldEqual, "Ola Nordmann")
				So(board.Rows[0].Time, ShouldEqual, "1.20:000")
				So(board.Rows[0].GapSeconds, ShouldEqual, 0)

				So(board.Rows[1].Position, ShouldEqual, 2)
				So(board.Rows[1].PlayerName, ShouldEqual, "Kari Nordmann")
				So(board.Rows[1].GapSeconds, ShouldAlmostEqual, 3.5, 1e-9)
			})

			Convey("Then the field average is rendered as a lap time", func() {
				So(board.AverageMin, ShouldAlmostEqual, (1.0+23.5/60+1.0+20.0/60)/2, 1e-9)
				So(board.AverageTime, ShouldNotBeEmpty)
			})
		})

		Convey("When the roster fetch fails", func() {
			degraded := startService(service.WithDirectory(&staticDirectory{err: directory.ErrFetchFailed}))
			defer degraded.Stop()

			_, err := degraded.SubmitScore(ctx, "p1", lap(1, 20, 0))
			So(err, ShouldBeNil)

			board, err := degraded.Leaderboard(ctx)

			Convey("Then rows render with player ids as names", func() {
				So(err, ShouldBeNil)
				So(board.Rows, ShouldHaveLength, 1)
				So(board.Rows[0].PlayerName, ShouldEqual, "p1")
			})
		})

		Convey("When the board is empty", func() {
			empty := startService(service.WithDirectory(testRoster()))
			defer empty.Stop()

			board, err := empty.Leaderboard(ctx)

			Convey("Then the average is zero and no rows render", func() {
				So(err, ShouldBeNil)
				So(board.Rows, ShouldBeEmpty)
				So(board.AverageMin, ShouldEqual, 0)
				So(board.AverageTime, ShouldBeEmpty)
			})
		})
	})
}

func TestServiceGetStats(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := startService(service.WithDirectory(testRoster()))
		defer svc.Stop()

		Convey("When reading stats", func() {
			stats := svc.GetStats()

			Convey("Then the service reports as started", func() {
				So(stats["started"], ShouldBeTrue)
				So(stats, ShouldContainKey, "queueLength")
				So(stats, ShouldContainKey, "trackedScores")
			})
		})
	})
}
