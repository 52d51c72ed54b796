package zcldef

// Attribute access control combinations from extended attribute discovery.
// Unknown combinations render as "undefined".
var accessNames = map[byte]string{
	0x01: "READ",
	0x02: "WRITE",
	0x03: "READ_WRITE",
	0x04: "REPORT",
	0x05: "READ_REPORT",
	0x06: "WRITE_REPORT",
	0x07: "READ_WRITE_REPORT",
}

func AccessName(acl byte) string {
	if name, ok := accessNames[acl]; ok {
		return name
	}
	return "undefined"
}
