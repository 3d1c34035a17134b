package report

import "github.com/asm2me/Asterisk-Reporting/internal/cdr"

// Classifier applies preset rules to grouped calls. This is the group-aware
// form: it looks at the first leg plus group-wide facts, which corrects the
// multi-leg miscounting the leg-level table suffers from (an unanswered
// gateway leg followed by an answered internal leg is one answered call, not
// a missed one).
type Classifier struct {
	Gateway cdr.GatewayPattern

	// Extensions restricts what counts as a local-extension channel. When
	// empty (admin viewers have no extension list) any digits-identified,
	// non-gateway channel is treated as a local extension.
	Extensions []cdr.ExtensionPattern
}

func NewClassifier(gw cdr.GatewayPattern, extensions []string) Classifier {
	c := Classifier{Gateway: gw}
	for _, e := range extensions {
		if pat, ok := cdr.NewExtensionPattern(e); ok {
			c.Extensions = append(c.Extensions, pat)
		}
	}
	return c
}

// Matches reports whether a call belongs to the preset. Calls touching
// neither the gateway nor any local extension are excluded from both inbound
// and outbound on purpose; they surface under the internal preset instead.
func (c Classifier) Matches(call Call, preset Preset) bool {
	switch preset {
	case "", PresetAll:
		return true
	case PresetInbound:
		return c.firstLegOnGateway(call)
	case PresetOutbound:
		return c.firstLegOnExtension(call) && c.touchesGateway(call)
	case PresetMissed, PresetMissedIn:
		return c.firstLegOnGateway(call) && !call.AnyAnswered
	case PresetMissedOut:
		return c.firstLegOnExtension(call) && c.touchesGateway(call) && !call.AnyAnswered
	case PresetInternal:
		return !c.touchesGateway(call)
	case PresetAbandoned:
		// Queue abandonment is gateway-independent.
		return !call.AnyAnswered && call.AnyQueueContext
	default:
		return true
	}
}

// firstLegOnGateway looks at the originating side only: the trunk on the
// first leg's dstchannel means the call went out, not that it came in.
func (c Classifier) firstLegOnGateway(call Call) bool {
	return !c.Gateway.IsZero() && c.Gateway.Matches(call.FirstLeg().Channel)
}

// firstLegOnExtension is also origination-side only: a call whose first leg
// arrives from the gateway and lands on an extension is inbound, not
// outbound, even though an extension appears on its dstchannel.
func (c Classifier) firstLegOnExtension(call Call) bool {
	return c.isExtensionChannel(call.FirstLeg().Channel)
}

func (c Classifier) touchesGateway(call Call) bool {
	if c.Gateway.IsZero() {
		return false
	}
	for _, l := range call.Legs {
		if c.Gateway.MatchesLeg(l) {
			return true
		}
	}
	return false
}

func (c Classifier) isExtensionChannel(channel string) bool {
	if len(c.Extensions) > 0 {
		for _, pat := range c.Extensions {
			if pat.Matches(channel) {
				return true
			}
		}
		return false
	}
	ext, ok := cdr.ExtensionFromChannel(channel)
	if !ok || ext == "" {
		return false
	}
	return !c.Gateway.Matches(channel)
}

// attributedExtension finds the extension responsible for a call: the first
// leg (in time order) with a local-extension channel on either side wins.
// Returns false when no leg qualifies; such calls are excluded from
// by-extension rollups rather than bucketed under an unknown extension.
func (c Classifier) attributedExtension(call Call) (string, bool) {
	for _, l := range call.Legs {
		for _, channel := range []string{l.Channel, l.DstChannel} {
			if !c.isExtensionChannel(channel) {
				continue
			}
			if ext, ok := cdr.ExtensionFromChannel(channel); ok {
				return ext, true
			}
		}
	}
	return "", false
}
