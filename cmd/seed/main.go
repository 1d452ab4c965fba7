// Command seed posts a set of sample lap times through the running API so
// a local board has something to show.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const defaultTimeout = 10 * time.Second

type scorePayload struct {
	PlayerID string `json:"playerId"`
	Min      int    `json:"min"`
	Sec      int    `json:"sec"`
	Ms       int    `json:"ms"`
}

var sampleScores = []scorePayload{
	{PlayerID: "player-kari", Min: 1, Sec: 15, Ms: 0},
	{PlayerID: "player-ola", Min: 1, Sec: 20, Ms: 500},
	{PlayerID: "player-ingrid", Min: 1, Sec: 18, Ms: 250},
	{PlayerID: "player-lars", Min: 1, Sec: 23, Ms: 750},
	{PlayerID: "player-silje", Min: 1, Sec: 17, Ms: 125},
}

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8080", "Base URL of the service")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client := &http.Client{Timeout: *timeout}

	for _, score := range sampleScores {
		if err := postScore(ctx, client, *baseURL, score); err != nil {
			os.Stderr.WriteString("seed failed: " + err.Error() + "\n")
			os.Exit(1)
		}
		fmt.Printf("submitted %s %d.%02d:%03d\n", score.PlayerID, score.Min, score.Sec, score.Ms)
	}

	if err := printBoard(ctx, client, *baseURL); err != nil {
		os.Stderr.WriteString("leaderboard read failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func postScore(ctx context.Context, client *http.Client, baseURL string, score scorePayload) error {
	body, err := json.Marshal(score)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/scores", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, score.PlayerID)
	}
	return nil
}

func printBoard(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/leaderboard", nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var board struct {
		Rows []struct {
			Position   int     `json:"position"`
			PlayerName string  `json:"playerName"`
			Time       string  `json:"time"`
			GapSeconds float64 `json:"gapSeconds"`
		} `json:"rows"`
		AverageTime string `json:"averageTime"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return err
	}

	fmt.Println("\nleaderboard:")
	for _, row := range board.Rows {
		fmt.Printf("  %2d. %-24s %s  +%.3fs\n", row.Position, row.PlayerName, row.Time, row.GapSeconds)
	}
	if board.AverageTime != "" {
		fmt.Printf("  field average: %s\n", board.AverageTime)
	}
	return nil
}
