package models

// Well-known setting keys. The notification toggles are read into the
// typed notify.ChannelToggles at startup and whenever an admin updates
// settings; everything else is free-form configuration for the frontend.
const (
	SettingEmailEnabled    = "notifications_email_enabled"
	SettingSMSEnabled      = "notifications_sms_enabled"
	SettingWhatsAppEnabled = "notifications_whatsapp_enabled"
)

// SystemSetting is a key/value row managed from the admin console.
type SystemSetting struct {
	Base
	Key         string `gorm:"type:varchar(100);uniqueIndex;not null" json:"key"`
	Value       string `gorm:"type:text;not null" json:"value"`
	Description string `gorm:"type:text" json:"description"`
}

// BoolValue interprets the stored string as a toggle. Unset or
// unrecognized values default to true, matching the dispatcher's
// "enabled unless explicitly disabled" contract.
func (s *SystemSetting) BoolValue() bool {
	return s.Value != "false"
}
