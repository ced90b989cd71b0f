package types

import (
	"time"

	"github.com/robalyx/warden/internal/database/types/enum"
	"github.com/uptrace/bun"
)

// ModerationSettingsID is the primary key of the singleton settings row.
const ModerationSettingsID = 1

// Thresholds holds the per-category confidence a detection must exceed.
type Thresholds struct {
	HateSpeech float64 `bun:"hate_speech_threshold,notnull" json:"hateSpeech"`
	Harassment float64 `bun:"harassment_threshold,notnull"  json:"harassment"`
	Sexual     float64 `bun:"sexual_threshold,notnull"      json:"sexual"`
	Spam       float64 `bun:"spam_threshold,notnull"        json:"spam"`
}

// For returns the threshold of a category. Zero-tolerance and unscored categories return 0.
func (t Thresholds) For(vt enum.ViolationType) float64 {
	switch vt {
	case enum.ViolationTypeHateSpeech:
		return t.HateSpeech
	case enum.ViolationTypeHarassment:
		return t.Harassment
	case enum.ViolationTypeSexual:
		return t.Sexual
	case enum.ViolationTypeSpam:
		return t.Spam
	case enum.ViolationTypeReligious, enum.ViolationTypeOther:
		return 0
	}
	return 0
}

// Set updates the threshold of a category and reports whether the category has one.
func (t *Thresholds) Set(vt enum.ViolationType, value float64) bool {
	switch vt {
	case enum.ViolationTypeHateSpeech:
		t.HateSpeech = value
	case enum.ViolationTypeHarassment:
		t.Harassment = value
	case enum.ViolationTypeSexual:
		t.Sexual = value
	case enum.ViolationTypeSpam:
		t.Spam = value
	case enum.ViolationTypeReligious, enum.ViolationTypeOther:
		return false
	}
	return true
}

// AutoEnableFlags toggles automatic behavior of the worker.
type AutoEnableFlags struct {
	ShadowBan            bool `bun:"auto_shadow_ban,notnull"       json:"shadowBan"`
	OutrightBan          bool `bun:"auto_outright_ban,notnull"     json:"outrightBan"`
	OfficialBan          bool `bun:"auto_official_ban,notnull"     json:"officialBan"`
	BackgroundMonitoring bool `bun:"background_monitoring,notnull" json:"backgroundMonitoring"`
	RealTimeAlerts       bool `bun:"real_time_alerts,notnull"      json:"realTimeAlerts"`
}

// Allows reports whether the worker may apply a penalty of the given type on its own.
func (f AutoEnableFlags) Allows(p enum.PenaltyType) bool {
	switch p {
	case enum.PenaltyTypeShadowBan:
		return f.ShadowBan
	case enum.PenaltyTypeOutrightBan:
		return f.OutrightBan
	case enum.PenaltyTypeOfficialBan:
		return f.OfficialBan
	case enum.PenaltyTypeWarning:
		return false
	}
	return false
}

// EscalationThresholds are the confirmed violation counts that start each escalation level.
type EscalationThresholds struct {
	Level1 int `bun:"level1_threshold,notnull" json:"level1"`
	Level2 int `bun:"level2_threshold,notnull" json:"level2"`
	Level3 int `bun:"level3_threshold,notnull" json:"level3"`
}

// PenaltyDurations are penalty lengths in hours. A nil value means permanent.
type PenaltyDurations struct {
	ShadowBanHours   *int `bun:"shadow_ban_hours"   json:"shadowBanHours"`
	OutrightBanHours *int `bun:"outright_ban_hours" json:"outrightBanHours"`
	OfficialBanHours *int `bun:"official_ban_hours" json:"officialBanHours"`
}

// HoursFor returns the configured hours for a penalty type, 0 meaning permanent.
func (d PenaltyDurations) HoursFor(p enum.PenaltyType) int {
	var hours *int
	switch p {
	case enum.PenaltyTypeShadowBan:
		hours = d.ShadowBanHours
	case enum.PenaltyTypeOutrightBan:
		hours = d.OutrightBanHours
	case enum.PenaltyTypeOfficialBan:
		hours = d.OfficialBanHours
	case enum.PenaltyTypeWarning:
		return 0
	}
	if hours == nil {
		return 0
	}
	return *hours
}

// ModerationSettings is the singleton runtime configuration of the moderation engine.
type ModerationSettings struct {
	bun.BaseModel `bun:"table:moderation_settings,alias:ms"`

	ID                        int                  `bun:",pk"             json:"-"`
	Thresholds                Thresholds           `bun:",embed"          json:"thresholds"`
	AutoEnable                AutoEnableFlags      `bun:",embed"          json:"autoEnable"`
	Escalation                EscalationThresholds `bun:",embed"          json:"escalation"`
	Durations                 PenaltyDurations     `bun:",embed"          json:"durations"`
	Whitelist                 map[string][]string  `bun:",type:jsonb"     json:"whitelist"`
	MonitoringIntervalMinutes int                  `bun:",notnull"        json:"monitoringIntervalMinutes"`
	AutoApplyMinPriority      int                  `bun:",notnull"        json:"autoApplyMinPriority"`
	Version                   int64                `bun:",notnull"        json:"version"`
	UpdatedAt                 time.Time            `bun:",notnull"        json:"updatedAt"`
}

// WhitelistFor returns the whitelisted patterns of a category.
func (s *ModerationSettings) WhitelistFor(vt enum.ViolationType) []string {
	return s.Whitelist[vt.String()]
}

// AddWhitelistPattern adds a pattern to a category and reports whether it was new.
func (s *ModerationSettings) AddWhitelistPattern(vt enum.ViolationType, pattern string) bool {
	if s.Whitelist == nil {
		s.Whitelist = make(map[string][]string)
	}
	key := vt.String()
	for _, existing := range s.Whitelist[key] {
		if existing == pattern {
			return false
		}
	}
	s.Whitelist[key] = append(s.Whitelist[key], pattern)
	return true
}

// MonitoringInterval returns the content scan interval.
func (s *ModerationSettings) MonitoringInterval() time.Duration {
	return time.Duration(s.MonitoringIntervalMinutes) * time.Minute
}

// Clone returns a deep copy that callers may mutate.
func (s *ModerationSettings) Clone() *ModerationSettings {
	c := *s
	c.Durations = PenaltyDurations{
		ShadowBanHours:   cloneInt(s.Durations.ShadowBanHours),
		OutrightBanHours: cloneInt(s.Durations.OutrightBanHours),
		OfficialBanHours: cloneInt(s.Durations.OfficialBanHours),
	}
	c.Whitelist = make(map[string][]string, len(s.Whitelist))
	for k, v := range s.Whitelist {
		c.Whitelist[k] = append([]string(nil), v...)
	}
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
