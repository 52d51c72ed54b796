package zcldef

import (
	"encoding/json"
	"os"
)

type jsonZclMap map[string]jsonClusterDefinition

type jsonClusterDefinition struct {
	ID               uint16
	Attributes       map[string]AttributeDefinition
	Commands         map[string]CommandDefinition
	CommandsResponse map[string]CommandsResponseDefinition
}

func loadFromFile(filename string) (map[uint16]ClusterDefinition, error) {
	jsonBuf, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var jsonLoadedMap jsonZclMap
	if err := json.Unmarshal(jsonBuf, &jsonLoadedMap); err != nil {
		return nil, err
	}

	ret := make(map[uint16]ClusterDefinition)

	for clusterName, jsonClusterDef := range jsonLoadedMap {
		attr := make(map[uint16]AttributeDefinition)
		for attrName, a := range jsonClusterDef.Attributes {
			a.Name = attrName
			attr[a.ID] = a
		}
		cmd := make(map[uint16]CommandDefinition)
		for cmdName, c := range jsonClusterDef.Commands {
			c.Name = cmdName
			cmd[c.ID] = c
		}
		cmdResp := make(map[uint16]CommandsResponseDefinition)
		for cmdRespName, cr := range jsonClusterDef.CommandsResponse {
			cr.Name = cmdRespName
			cmdResp[cr.ID] = cr
		}

		ret[jsonClusterDef.ID] = ClusterDefinition{
			ID:               jsonClusterDef.ID,
			Name:             clusterName,
			Attributes:       attr,
			Commands:         cmd,
			CommandsResponse: cmdResp,
		}
	}

	return ret, nil
}
