package db

import (
	"math"
	"time"

	"github.com/balkashynov/tempo/internal/models"
)

// Rounding: every seconds or hours figure uses math.Round, which rounds half
// away from zero.

func roundSeconds(d time.Duration) int64 {
	return int64(math.Round(d.Seconds()))
}

func roundHours(d time.Duration) int64 {
	return int64(math.Round(d.Hours()))
}

// sessionSeconds is the recorded length of a completed session.
func sessionSeconds(s *models.Session) int64 {
	if s.DurationSeconds != nil {
		return *s.DurationSeconds
	}
	return roundSeconds(s.EndTime.Sub(s.StartTime))
}

// summarize folds sessions into Statistics. Duration figures only count
// completed sessions; start bounds, active count and project count cover all.
func summarize(sessions []models.Session) models.Statistics {
	var st models.Statistics
	projects := make(map[uint]struct{})

	for i := range sessions {
		sess := &sessions[i]
		projects[sess.ProjectID] = struct{}{}

		if sess.IsActive {
			st.ActiveSessions++
		}

		start := sess.StartTime
		if st.FirstSessionAt == nil || start.Before(*st.FirstSessionAt) {
			st.FirstSessionAt = &start
		}
		if st.LastSessionAt == nil || start.After(*st.LastSessionAt) {
			st.LastSessionAt = &start
		}

		if !sess.Completed() {
			continue
		}

		secs := sessionSeconds(sess)
		st.TotalCompletedSessions++
		st.TotalDurationSeconds += secs

		if st.LongestSessionSeconds == nil || secs > *st.LongestSessionSeconds {
			v := secs
			st.LongestSessionSeconds = &v
		}
		if st.ShortestSessionSeconds == nil || secs < *st.ShortestSessionSeconds {
			v := secs
			st.ShortestSessionSeconds = &v
		}
	}

	st.UniqueProjects = int64(len(projects))
	st.AverageDurationSeconds = average(st.TotalDurationSeconds, st.TotalCompletedSessions)

	return st
}

func average(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return int64(math.Round(float64(total) / float64(count)))
}
