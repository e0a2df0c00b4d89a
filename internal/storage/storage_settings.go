package storage

import "log"

// ScopeSettings is per-guild configuration. A missing record means "use
// defaults" — active, filter on, mature off at level 1 — which is not the
// same as an explicit disable.
type ScopeSettings struct {
	Active        bool `json:"active"`
	FilterEnabled bool `json:"filter_enabled"`
	MatureEnabled bool `json:"mature_enabled"`
	MatureLevel   int  `json:"mature_level"`
}

// DefaultScopeSettings are applied when a guild has no stored record.
func DefaultScopeSettings() ScopeSettings {
	return ScopeSettings{
		Active:        true,
		FilterEnabled: true,
		MatureEnabled: false,
		MatureLevel:   1,
	}
}

func (s *Storage) loadScopes() map[string]ScopeSettings {
	scopes := make(map[string]ScopeSettings)
	_, _ = s.load(keyScopes, &scopes)
	return scopes
}

// GuildSettings returns the stored settings for a guild, or defaults.
func (s *Storage) GuildSettings(guildID string) ScopeSettings {
	scopes := s.loadScopes()
	settings, ok := scopes[guildID]
	if !ok {
		return DefaultScopeSettings()
	}
	if settings.MatureLevel < 1 || settings.MatureLevel > 3 {
		settings.MatureLevel = 1
	}
	return settings
}

// updateGuildSettings applies mutate to the guild's settings under the
// table mutex so concurrent toggles cannot overwrite each other.
func (s *Storage) updateGuildSettings(guildID string, mutate func(*ScopeSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scopes := s.loadScopes()
	settings, ok := scopes[guildID]
	if !ok {
		settings = DefaultScopeSettings()
	}
	mutate(&settings)
	scopes[guildID] = settings
	if err := s.put(keyScopes, scopes); err != nil {
		log.Printf("[WARN] Scope settings write dropped for guild %s: %v", guildID, err)
	}
}

// SetGuildActive flips the whole-guild activation switch.
func (s *Storage) SetGuildActive(guildID string, active bool) {
	s.updateGuildSettings(guildID, func(st *ScopeSettings) {
		st.Active = active
	})
}

// SetFilterEnabled toggles the content filter for a guild.
func (s *Storage) SetFilterEnabled(guildID string, enabled bool) {
	s.updateGuildSettings(guildID, func(st *ScopeSettings) {
		st.FilterEnabled = enabled
	})
}

// SetMature sets mature mode and level for a guild. Disabling resets the
// level to 1.
func (s *Storage) SetMature(guildID string, enabled bool, level int) {
	if !enabled {
		level = 1
	}
	if level < 1 || level > 3 {
		level = 1
	}
	s.updateGuildSettings(guildID, func(st *ScopeSettings) {
		st.MatureEnabled = enabled
		st.MatureLevel = level
	})
}

// ChannelActive reports whether a channel accepts responses. Channels are
// active unless explicitly deactivated.
func (s *Storage) ChannelActive(channelID string) bool {
	channels := make(map[string]bool)
	ok, err := s.load(keyChannels, &channels)
	if err != nil || !ok {
		return true
	}
	active, found := channels[channelID]
	return !found || active
}

// SetChannelActive records per-channel activation.
func (s *Storage) SetChannelActive(channelID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channels := make(map[string]bool)
	_, _ = s.load(keyChannels, &channels)
	channels[channelID] = active
	if err := s.put(keyChannels, channels); err != nil {
		log.Printf("[WARN] Channel activation write dropped for %s: %v", channelID, err)
	}
}
