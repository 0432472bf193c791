// Package is provides string format rules. Each rule validates with
// govalidator and documents the matching OpenAPI format.
package is

import (
	"github.com/asaskevich/govalidator"

	"github.com/Gobd/paramcheck"
)

var (
	// Email checks for an e-mail address.
	Email = paramcheck.NewFormatRule(govalidator.IsEmail, "email", "must be a valid email address")
	// URL checks for an absolute or host-relative URL.
	URL = paramcheck.NewFormatRule(govalidator.IsURL, "uri", "must be a valid URL")
	// UUID checks for a UUID of any version.
	UUID = paramcheck.NewFormatRule(govalidator.IsUUID, "uuid", "must be a valid UUID")
	// IP checks for an IPv4 or IPv6 address.
	IP = paramcheck.NewFormatRule(govalidator.IsIP, "ip", "must be a valid IP address")
	// IPv4 checks for an IPv4 address.
	IPv4 = paramcheck.NewFormatRule(govalidator.IsIPv4, "ipv4", "must be a valid IPv4 address")
	// IPv6 checks for an IPv6 address.
	IPv6 = paramcheck.NewFormatRule(govalidator.IsIPv6, "ipv6", "must be a valid IPv6 address")
	// Base64 checks for base64 encoded data.
	Base64 = paramcheck.NewFormatRule(govalidator.IsBase64, "byte", "must be encoded in Base64")
	// JSON checks for a JSON document.
	JSON = paramcheck.NewStringRule(govalidator.IsJSON, "must be valid JSON")
	// Int checks for a signed integer.
	Int = paramcheck.NewStringRule(govalidator.IsInt, "must be an integer number")
	// Float checks for a floating point number.
	Float = paramcheck.NewStringRule(govalidator.IsFloat, "must be a floating point number")
	// Digits checks that a string contains digits only.
	Digits = paramcheck.NewStringRule(govalidator.IsNumeric, "must contain digits only")
	// Alpha checks for ASCII letters only.
	Alpha = paramcheck.NewStringRule(govalidator.IsAlpha, "must contain English letters only")
	// Alphanumeric checks for ASCII letters and digits only.
	Alphanumeric = paramcheck.NewStringRule(govalidator.IsAlphanumeric, "must contain English letters and digits only")
	// Hexadecimal checks for a hexadecimal number.
	Hexadecimal = paramcheck.NewStringRule(govalidator.IsHexadecimal, "must be a valid hexadecimal number")
	// LowerCase checks that a string contains no upper case letters.
	LowerCase = paramcheck.NewStringRule(govalidator.IsLowerCase, "must be in lower case")
)
