package zcldef

// ZCL data type codes, ZCL7 spec table 2-10.
var dataTypeNames = map[byte]string{
	0x00: "nodata",
	0x08: "data8",
	0x09: "data16",
	0x0a: "data24",
	0x0b: "data32",
	0x0c: "data40",
	0x0d: "data48",
	0x0e: "data56",
	0x0f: "data64",
	0x10: "bool",
	0x18: "map8",
	0x19: "map16",
	0x1a: "map24",
	0x1b: "map32",
	0x1c: "map40",
	0x1d: "map48",
	0x1e: "map56",
	0x1f: "map64",
	0x20: "uint8",
	0x21: "uint16",
	0x22: "uint24",
	0x23: "uint32",
	0x24: "uint40",
	0x25: "uint48",
	0x26: "uint56",
	0x27: "uint64",
	0x28: "int8",
	0x29: "int16",
	0x2a: "int24",
	0x2b: "int32",
	0x2c: "int40",
	0x2d: "int48",
	0x2e: "int56",
	0x2f: "int64",
	0x30: "enum8",
	0x31: "enum16",
	0x38: "semi",
	0x39: "single",
	0x3a: "double",
	0x41: "octstr",
	0x42: "string",
	0x43: "octstr16",
	0x44: "string16",
	0x48: "array",
	0x4c: "struct",
	0x50: "set",
	0x51: "bag",
	0xe0: "ToD",
	0xe1: "date",
	0xe2: "UTC",
	0xe8: "clusterId",
	0xe9: "attribId",
	0xea: "bacOID",
	0xf0: "EUI64",
	0xf1: "key128",
	0xff: "unk",
}

// DataTypeName resolves a ZCL data type code to its short spec name.
func DataTypeName(code byte) (string, bool) {
	name, ok := dataTypeNames[code]
	return name, ok
}
