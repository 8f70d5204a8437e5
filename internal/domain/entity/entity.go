package entity

import "time"

// Participant is a member of the duty rotation. Position is the rank in
// the rotation queue: 1 is currently on duty, 2 is the designated next
// duty holder. Positions of the whole roster always form the set
// {1..N}, except transiently inside a single advance transaction.
type Participant struct {
	ID          int64     `json:"id" db:"id"`
	SlackUserID string    `json:"slack_user_id" db:"slack_user_id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Position    int       `json:"position" db:"position"`
	JoinedAt    time.Time `json:"joined_at" db:"joined_at"`
}

// Vacation is a closed calendar-date interval during which a
// participant is skipped as a rotation candidate. Start and End carry
// date precision only. The announced flags debounce the scheduler's
// boundary announcements; once set they are never cleared.
type Vacation struct {
	ID             int64     `json:"id" db:"id"`
	UID            string    `json:"uid" db:"uid"`
	ParticipantID  int64     `json:"participant_id" db:"participant_id"`
	StartDate      time.Time `json:"start_date" db:"start_date"`
	EndDate        time.Time `json:"end_date" db:"end_date"`
	AnnouncedStart bool      `json:"announced_start" db:"announced_start"`
	AnnouncedEnd   bool      `json:"announced_end" db:"announced_end"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Covers reports whether the vacation includes the given day.
func (v *Vacation) Covers(day time.Time) bool {
	dn := dayNumber(day)
	return dayNumber(v.StartDate) <= dn && dn <= dayNumber(v.EndDate)
}

// Overlaps reports whether the vacation shares at least one day with the
// given closed interval. Touching endpoints count as overlap.
func (v *Vacation) Overlaps(start, end time.Time) bool {
	return dayNumber(start) <= dayNumber(v.EndDate) && dayNumber(end) >= dayNumber(v.StartDate)
}

func dayNumber(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Settings is the singleton bot state: the notification channel bound
// by the activate command and the date the weekly hand-off last fired.
type Settings struct {
	ID            int64      `json:"id" db:"id"`
	ChannelID     string     `json:"channel_id" db:"channel_id"`
	LastWeeklyRun *time.Time `json:"last_weekly_run" db:"last_weekly_run"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
