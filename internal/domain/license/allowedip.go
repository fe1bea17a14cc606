package license

import "licenseguard/internal/shared/utils"

// AllowedIP is either unrestricted or bound to exactly one address. The zero
// value is unrestricted.
type AllowedIP struct {
	ip string
}

// Unrestricted allows requests from any address.
func Unrestricted() AllowedIP {
	return AllowedIP{}
}

// RestrictedTo binds the license to ip. A blank ip yields Unrestricted.
func RestrictedTo(ip string) AllowedIP {
	return AllowedIP{ip: utils.NormalizeIP(ip)}
}

// AllowedIPFromNullable maps the persisted nullable column.
func AllowedIPFromNullable(ip *string) AllowedIP {
	if ip == nil {
		return Unrestricted()
	}
	return RestrictedTo(*ip)
}

// IsRestricted reports whether a specific address is required.
func (a AllowedIP) IsRestricted() bool {
	return a.ip != ""
}

// IP returns the bound address and whether one is set.
func (a AllowedIP) IP() (string, bool) {
	return a.ip, a.ip != ""
}

// Nullable is the persisted form.
func (a AllowedIP) Nullable() *string {
	if a.ip == "" {
		return nil
	}
	ip := a.ip
	return &ip
}

func (a AllowedIP) String() string {
	if a.ip == "" {
		return "unrestricted"
	}
	return a.ip
}
