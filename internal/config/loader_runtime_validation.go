package config

import "os"

// applyRuntimeValidation applies runtime validations and transformations
// that depend on process environment rather than on a single explicit
// setting.
func applyRuntimeValidation(cfg *Config) error {
	applyHostnameClientIDSuffix(cfg)
	return nil
}

// applyHostnameClientIDSuffix appends the process hostname to the MQTT
// client ID when it was left at its default, so that running more than one
// poolbench instance against the same broker does not collide on client
// ID and repeatedly kick each other off the session.
func applyHostnameClientIDSuffix(cfg *Config) {
	if cfg.Notify.ClientID != defaultNotifyConfig().ClientID {
		return
	}
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		return
	}
	cfg.Notify.ClientID = cfg.Notify.ClientID + "-" + hostname
}
