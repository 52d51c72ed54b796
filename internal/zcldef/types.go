package zcldef

type ClusterDefinition struct {
	ID               uint16
	Name             string
	Attributes       map[uint16]AttributeDefinition
	Commands         map[uint16]CommandDefinition
	CommandsResponse map[uint16]CommandsResponseDefinition
}

type AttributeDefinition struct {
	ID   uint16
	Name string
	Type byte
}

// CommandDefinition describes a command a server cluster receives. Parameters
// are [name, type] pairs.
type CommandDefinition struct {
	ID         uint16
	Name       string
	Parameters [][]string
}

// CommandsResponseDefinition describes a command a server cluster generates.
type CommandsResponseDefinition struct {
	ID         uint16
	Name       string
	Parameters [][]string
}
