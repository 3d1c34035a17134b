package cdr

import "strings"

// Channel names follow the switch convention {Technology}/{Identifier}-{suffix}
// (Local channels use {Technology}/{Identifier}@{context}). The data source has
// no normalized identity column, so gateway and extension identity are inferred
// from these prefixes.

// GatewayPattern is a normalized channel-name prefix for a trunk/gateway.
//
// The selector value may arrive as a bare identifier ("gw1"), as a
// technology-qualified prefix ("PJSIP/gw1"), or with LIKE decoration already
// attached ("gw1-%"). Normalization strips trailing '%' and '-' and re-appends
// a single '-' so matching is always an exact prefix test.
type GatewayPattern struct {
	prefix    string
	qualified bool // prefix already includes a Technology/ part
}

func NewGatewayPattern(gateway string) (GatewayPattern, bool) {
	g := strings.ReplaceAll(gateway, "\x00", "")
	g = strings.TrimRight(g, "%")
	g = strings.TrimRight(g, "-")
	if g == "" {
		return GatewayPattern{}, false
	}
	return GatewayPattern{
		prefix:    g + "-",
		qualified: strings.Contains(g, "/"),
	}, true
}

func (p GatewayPattern) IsZero() bool { return p.prefix == "" }

// Matches tests a single channel name against the pattern. A bare identifier
// matches the identifier part of any technology ("gw1" matches both
// "PJSIP/gw1-000001" and "SIP/gw1-000002").
func (p GatewayPattern) Matches(channel string) bool {
	if p.prefix == "" || channel == "" {
		return false
	}
	if strings.HasPrefix(channel, p.prefix) {
		return true
	}
	if p.qualified {
		return false
	}
	if i := strings.IndexByte(channel, '/'); i >= 0 {
		return strings.HasPrefix(channel[i+1:], p.prefix)
	}
	return false
}

// MatchesLeg tests either side of a leg.
func (p GatewayPattern) MatchesLeg(l CallLeg) bool {
	return p.Matches(l.Channel) || p.Matches(l.DstChannel)
}

// ExtensionPattern matches the channels a local extension appears on:
// SIP/{ext}-..., PJSIP/{ext}-... and Local/{ext}@... .
type ExtensionPattern struct {
	ext string
}

// NewExtensionPattern rejects anything that is not a plain digit string;
// extension lists come from user configuration and are not trusted.
func NewExtensionPattern(ext string) (ExtensionPattern, bool) {
	ext = strings.TrimSpace(ext)
	if !isDigits(ext) {
		return ExtensionPattern{}, false
	}
	return ExtensionPattern{ext: ext}, true
}

func (p ExtensionPattern) Extension() string { return p.ext }

func (p ExtensionPattern) Matches(channel string) bool {
	if p.ext == "" {
		return false
	}
	return strings.HasPrefix(channel, "SIP/"+p.ext+"-") ||
		strings.HasPrefix(channel, "PJSIP/"+p.ext+"-") ||
		strings.HasPrefix(channel, "Local/"+p.ext+"@")
}

func (p ExtensionPattern) MatchesLeg(l CallLeg) bool {
	return p.Matches(l.Channel) || p.Matches(l.DstChannel)
}

// ExtensionFromChannel extracts the extension digits from a channel name:
// the identifier between the technology prefix and the first '-' for
// SIP/PJSIP names, or between '/' and '@' for Local names. Returns false for
// trunk-style identifiers that are not plain digits.
func ExtensionFromChannel(channel string) (string, bool) {
	slash := strings.IndexByte(channel, '/')
	if slash <= 0 {
		return "", false
	}
	tech := channel[:slash]
	rest := channel[slash+1:]

	var id string
	switch tech {
	case "Local":
		at := strings.IndexByte(rest, '@')
		if at < 0 {
			return "", false
		}
		id = rest[:at]
	default:
		dash := strings.IndexByte(rest, '-')
		if dash < 0 {
			return "", false
		}
		id = rest[:dash]
	}
	if !isDigits(id) {
		return "", false
	}
	return id, true
}

// GatewayIdentifierFromChannel extracts the {Identifier} part of a channel
// name regardless of whether it is an extension or a trunk. Used for gateway
// discovery over observed channel names.
func GatewayIdentifierFromChannel(channel string) (string, bool) {
	slash := strings.IndexByte(channel, '/')
	if slash <= 0 || slash == len(channel)-1 {
		return "", false
	}
	rest := channel[slash+1:]
	if dash := strings.IndexByte(rest, '-'); dash > 0 {
		rest = rest[:dash]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
