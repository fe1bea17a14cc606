package services

import (
	"fmt"

	"licenseguard/internal/application/enforcement/dto"
	"licenseguard/internal/domain/license"
	"licenseguard/internal/shared/utils"
)

// IPCheckResult carries both the masked message shown to the client and the
// unmasked reason stored with the violation.
type IPCheckResult struct {
	Allowed         bool
	Code            dto.DenialCode
	Message         string
	ViolationReason string
	Details         map[string]any
}

// IPBindingValidator compares the request address against the license's
// optional allowed IP.
type IPBindingValidator struct{}

func NewIPBindingValidator() *IPBindingValidator {
	return &IPBindingValidator{}
}

func (v *IPBindingValidator) Validate(allowed license.AllowedIP, requestIP string) IPCheckResult {
	allowedIP, restricted := allowed.IP()
	if !restricted {
		return IPCheckResult{Allowed: true}
	}

	requestIP = utils.NormalizeIP(requestIP)
	if requestIP == "" {
		return IPCheckResult{
			Code:            dto.CodeIPNotDetected,
			Message:         "Unable to determine your network address. This license only works from its registered network.",
			ViolationReason: fmt.Sprintf("request IP not detected; license bound to %s", allowedIP),
			Details:         map[string]any{"allowed_ip": utils.MaskIP(allowedIP)},
		}
	}

	if utils.CompareIPs(requestIP, allowedIP) {
		return IPCheckResult{Allowed: true}
	}

	return IPCheckResult{
		Code: dto.CodeIPNotAllowed,
		Message: fmt.Sprintf("Access from %s is not allowed. This license is bound to %s.",
			utils.MaskIP(requestIP), utils.MaskIP(allowedIP)),
		ViolationReason: fmt.Sprintf("request IP %s does not match allowed IP %s", requestIP, allowedIP),
		Details: map[string]any{
			"request_ip": utils.MaskIP(requestIP),
			"allowed_ip": utils.MaskIP(allowedIP),
		},
	}
}
