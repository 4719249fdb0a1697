package config

import "maps"

// MergeTargetConfig merges two target configs, with override taking precedence.
// Neither input is modified.
func MergeTargetConfig(base, override *TargetConfig) *TargetConfig {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := &TargetConfig{
		Type:             base.Type,
		ConnectionString: base.ConnectionString,
		Path:             base.Path,
		Host:             base.Host,
		Port:             base.Port,
		Database:         base.Database,
		User:             base.User,
		Password:         base.Password,
		Options:          make(map[string]string, len(base.Options)+len(override.Options)),
		Params:           make(map[string]any, len(base.Params)+len(override.Params)),
	}
	maps.Copy(merged.Options, base.Options)
	maps.Copy(merged.Params, base.Params)

	if override.Type != "" {
		merged.Type = override.Type
	}
	if override.ConnectionString != "" {
		merged.ConnectionString = override.ConnectionString
	}
	if override.Path != "" {
		merged.Path = override.Path
	}
	if override.Host != "" {
		merged.Host = override.Host
	}
	if override.Port != 0 {
		merged.Port = override.Port
	}
	if override.Database != "" {
		merged.Database = override.Database
	}
	if override.User != "" {
		merged.User = override.User
	}
	if override.Password != "" {
		merged.Password = override.Password
	}

	maps.Copy(merged.Options, override.Options)
	maps.Copy(merged.Params, override.Params)

	return merged
}
