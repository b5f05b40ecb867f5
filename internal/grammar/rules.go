package grammar

import "github.com/ghettovoice/abnf"

// RFC 3986 Appendix A rules used by the URI engine.
// Only the productions that need a full grammar check are defined here;
// the splitter itself works on delimiters.

func lit(s string) abnf.Operator { return abnf.Literal(`"`+s+`"`, []byte(s)) }

func rng(key string, lo, hi byte) abnf.Operator { return abnf.Range(key, []byte{lo}, []byte{hi}) }

var (
	alpha = abnf.Alt("ALPHA", rng("%x41-5A", 0x41, 0x5A), rng("%x61-7A", 0x61, 0x7A))
	digit = rng("DIGIT", 0x30, 0x39)

	hexdig = abnf.Alt("HEXDIG", digit, rng("%x41-46", 0x41, 0x46), rng("%x61-66", 0x61, 0x66))

	unreserved = abnf.Alt("unreserved", alpha, digit, lit("-"), lit("."), lit("_"), lit("~"))

	subDelims = abnf.Alt("sub-delims",
		lit("!"), lit("$"), lit("&"), lit("'"), lit("("), lit(")"),
		lit("*"), lit("+"), lit(","), lit(";"), lit("="),
	)

	// scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." )
	scheme = abnf.Concat("scheme",
		alpha,
		abnf.Repeat0Inf(`*( ALPHA / DIGIT / "+" / "-" / "." )`,
			abnf.Alt(`ALPHA / DIGIT / "+" / "-" / "."`, alpha, digit, lit("+"), lit("-"), lit(".")),
		),
	)

	// port = *DIGIT
	port = abnf.Repeat0Inf("port", digit)

	// IPvFuture = "v" 1*HEXDIG "." 1*( unreserved / sub-delims / ":" )
	ipvFuture = abnf.Concat("IPvFuture",
		lit("v"),
		abnf.Repeat1Inf("1*HEXDIG", hexdig),
		lit("."),
		abnf.Repeat1Inf(`1*( unreserved / sub-delims / ":" )`,
			abnf.Alt(`unreserved / sub-delims / ":"`, unreserved, subDelims, lit(":")),
		),
	)

	// dec-octet = DIGIT / %x31-39 DIGIT / "1" 2DIGIT / "2" %x30-34 DIGIT / "25" %x30-35
	decOctet = abnf.Alt("dec-octet",
		abnf.Concat(`"25" %x30-35`, lit("25"), rng("%x30-35", 0x30, 0x35)),
		abnf.Concat(`"2" %x30-34 DIGIT`, lit("2"), rng("%x30-34", 0x30, 0x34), digit),
		abnf.Concat(`"1" 2DIGIT`, lit("1"), digit, digit),
		abnf.Concat(`%x31-39 DIGIT`, rng("%x31-39", 0x31, 0x39), digit),
		digit,
	)

	// IPv4address = dec-octet "." dec-octet "." dec-octet "." dec-octet
	ipv4Address = abnf.Concat("IPv4address",
		decOctet, lit("."), decOctet, lit("."), decOctet, lit("."), decOctet,
	)
)
