package resource

import "time"

// Meta is the audit/location sub-block attached to every resource in
// responses (RFC 7643 section 3.1). The endpoint core fills ResourceType
// when the handler omits the block entirely and always overwrites Location;
// Created, LastModified and Version stay handler-owned.
type Meta struct {
	ResourceType string
	Created      *time.Time
	LastModified *time.Time
	Location     string
	Version      string
}

func metaFromMap(raw map[string]interface{}) *Meta {
	m := &Meta{}
	if s, ok := raw["resourceType"].(string); ok {
		m.ResourceType = s
	}
	if s, ok := raw["location"].(string); ok {
		m.Location = s
	}
	if s, ok := raw["version"].(string); ok {
		m.Version = s
	}
	m.Created = parseTime(raw["created"])
	m.LastModified = parseTime(raw["lastModified"])
	return m
}

func (m *Meta) toMap() map[string]interface{} {
	out := make(map[string]interface{})
	if m.ResourceType != "" {
		out["resourceType"] = m.ResourceType
	}
	if m.Created != nil {
		out["created"] = m.Created.UTC().Format(time.RFC3339)
	}
	if m.LastModified != nil {
		out["lastModified"] = m.LastModified.UTC().Format(time.RFC3339)
	}
	if m.Location != "" {
		out["location"] = m.Location
	}
	if m.Version != "" {
		out["version"] = m.Version
	}
	return out
}

func parseTime(v interface{}) *time.Time {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
