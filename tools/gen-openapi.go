// gen-openapi prints the OpenAPI document of the rwdpool rpc server.
//
//	go run ./tools/gen-openapi.go > openapi.yaml
package main

import (
	"fmt"
	"os"
	"sort"
	"text/template"
)

type Endpoint struct {
	Path        string
	OperationID string
	Description string
	Parameters  []Parameter
	Response    string
	Tag         string
}

type Parameter struct {
	Name        string
	In          string
	Type        string
	Required    bool
	Description string
}

var (
	addrParam   = Parameter{Name: "addr", In: "path", Type: "string", Required: true, Description: "Account address (hex, with or without 0x)"}
	idParam     = Parameter{Name: "id", In: "path", Type: "integer", Required: true, Description: "Period or stake id"}
	heightParam = Parameter{Name: "height", In: "query", Type: "integer", Description: "Committed version (default: latest)"}
	nowParam    = Parameter{Name: "now", In: "query", Type: "integer", Description: "Unix seconds the rewards are projected to (default: wall clock)"}
)

var endpoints = []Endpoint{
	{
		Path:        "/pool",
		OperationID: "pool",
		Description: "Query the pool state and the unallocated reward balance",
		Parameters:  []Parameter{heightParam, nowParam},
		Response:    "PoolInfo",
	},
	{
		Path:        "/periods",
		OperationID: "periods",
		Description: "Query all reward periods",
		Parameters:  []Parameter{heightParam},
		Response:    "RewardPeriods",
	},
	{
		Path:        "/periods/current",
		OperationID: "current_period",
		Description: "Query the reward period containing now",
		Parameters:  []Parameter{heightParam, nowParam},
		Response:    "RewardPeriod",
	},
	{
		Path:        "/periods/{id}",
		OperationID: "period",
		Description: "Query a reward period by id",
		Parameters:  []Parameter{idParam, heightParam},
		Response:    "RewardPeriod",
	},
	{
		Path:        "/accounts/{addr}/stakes",
		OperationID: "stakes",
		Description: "Query the open stakes of an account",
		Parameters:  []Parameter{addrParam, heightParam},
		Response:    "Stakes",
	},
	{
		Path:        "/accounts/{addr}/stakes/{id}/reward",
		OperationID: "reward",
		Description: "Query the reward projection of a stake",
		Parameters:  []Parameter{addrParam, idParam, heightParam, nowParam},
		Response:    "RewardProjection",
	},
	{
		Path:        "/accounts/{addr}/claimable",
		OperationID: "claimable",
		Description: "Query the rewards an account can claim at now",
		Parameters:  []Parameter{addrParam, heightParam, nowParam},
		Response:    "Amount",
	},
	{
		Path:        "/accounts/{addr}/stats",
		OperationID: "stats",
		Description: "Query the reward statistics of an account",
		Parameters:  []Parameter{addrParam, heightParam, nowParam},
		Response:    "RewardsStats",
	},
	{
		Path:        "/accounts/{addr}/balance",
		OperationID: "balance",
		Description: "Query the pool wallet balance of an account",
		Parameters:  []Parameter{addrParam, heightParam},
		Response:    "AccountBalance",
	},
	{
		Path:        "/tokens/{name}/balances/{addr}",
		OperationID: "token_balance",
		Description: "Query the token balance of an account",
		Parameters: []Parameter{
			{Name: "name", In: "path", Type: "string", Required: true, Description: "Token ledger name"},
			addrParam,
			heightParam,
		},
		Response: "Amount",
	},
}

const openapiTemplate = `openapi: 3.0.3
info:
  title: RWDPOOL API
  description: |
    Read-only API of the time weighted staking reward pool.

    Amounts are decimal strings of the smallest token unit.
  version: 1.0.0

servers:
  - url: http://localhost:26680
    description: Local node

paths:
{{- range .Endpoints }}
  {{ .Path }}:
    get:
      summary: {{ .Description }}
      operationId: {{ .OperationID }}
      tags:
        - {{ .Tag }}
{{- if .Parameters }}
      parameters:
{{- range .Parameters }}
        - name: {{ .Name }}
          in: {{ .In }}
          required: {{ .Required }}
          description: "{{ .Description }}"
          schema:
            type: {{ .Type }}
{{- end }}
{{- end }}
      responses:
        '200':
          description: Successful response
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/{{ .Response }}'
        '400':
          description: Bad request
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
        '404':
          description: Not found
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
{{- end }}

components:
  schemas:
    Amount:
      type: string
      description: Unsigned 256 bit integer in decimal

    PoolInfo:
      type: object
      properties:
        address:
          type: string
        version:
          type: string
        rewardBalance:
          $ref: '#/components/schemas/Amount'
        state:
          $ref: '#/components/schemas/PoolState'

    PoolState:
      type: object
      properties:
        totalWeight:
          $ref: '#/components/schemas/Amount'
        rewardPerWeight:
          $ref: '#/components/schemas/Amount'
        lastUpdate:
          type: string
        periodCursor:
          type: string
        periodsCount:
          type: string
        totalFunded:
          $ref: '#/components/schemas/Amount'
        totalPaid:
          $ref: '#/components/schemas/Amount'

    RewardPeriod:
      type: object
      properties:
        id:
          type: string
        funder:
          type: string
        reward:
          $ref: '#/components/schemas/Amount'
        rate:
          $ref: '#/components/schemas/Amount'
        start:
          type: string
        end:
          type: string
        emitted:
          $ref: '#/components/schemas/Amount'
        totalStaked:
          $ref: '#/components/schemas/Amount'
        lastUpdated:
          type: string
        rewardPerWeight:
          $ref: '#/components/schemas/Amount'

    RewardPeriods:
      type: array
      items:
        $ref: '#/components/schemas/RewardPeriod'

    Stake:
      type: object
      properties:
        id:
          type: string
        owner:
          type: string
        amount:
          $ref: '#/components/schemas/Amount'
        openTime:
          type: string
        closeTime:
          type: string
        closed:
          type: boolean
        checkpoint:
          $ref: '#/components/schemas/Amount'
        accrued:
          $ref: '#/components/schemas/Amount'
        paid:
          $ref: '#/components/schemas/Amount'

    Stakes:
      type: array
      items:
        $ref: '#/components/schemas/Stake'

    RewardProjection:
      type: object
      properties:
        stakeId:
          type: string
        reward:
          $ref: '#/components/schemas/Amount'
        rate:
          $ref: '#/components/schemas/Amount'
        stakeAmount:
          $ref: '#/components/schemas/Amount'
        weight:
          $ref: '#/components/schemas/Amount'
        totalWeight:
          $ref: '#/components/schemas/Amount'
        interval:
          type: string

    RewardsStats:
      type: object
      properties:
        claimable:
          $ref: '#/components/schemas/Amount'
        paid:
          $ref: '#/components/schemas/Amount'
        rate:
          $ref: '#/components/schemas/Amount'
        totalPaid:
          $ref: '#/components/schemas/Amount'

    AccountBalance:
      type: object
      properties:
        address:
          type: string
        balance:
          $ref: '#/components/schemas/Amount'
        staked:
          $ref: '#/components/schemas/Amount'

    Error:
      type: object
      properties:
        code:
          type: integer
          format: uint32
          description: Error code
        error:
          type: string
          description: Error message
`

func getTag(path string) string {
	switch {
	case len(path) >= 8 && path[:8] == "/periods":
		return "Periods"
	case len(path) >= 9 && path[:9] == "/accounts":
		return "Accounts"
	case len(path) >= 7 && path[:7] == "/tokens":
		return "Tokens"
	default:
		return "Pool"
	}
}

func main() {
	for i := range endpoints {
		endpoints[i].Tag = getTag(endpoints[i].Path)
	}

	tagMap := make(map[string][]Endpoint)
	for _, ep := range endpoints {
		tagMap[ep.Tag] = append(tagMap[ep.Tag], ep)
	}
	for tag := range tagMap {
		sort.Slice(tagMap[tag], func(i, j int) bool {
			return tagMap[tag][i].Path < tagMap[tag][j].Path
		})
	}

	tagOrder := []string{"Pool", "Periods", "Accounts", "Tokens"}

	var sortedEndpoints []Endpoint
	for _, tag := range tagOrder {
		sortedEndpoints = append(sortedEndpoints, tagMap[tag]...)
	}

	tmpl, err := template.New("openapi").Parse(openapiTemplate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing template: %v\n", err)
		os.Exit(1)
	}

	data := struct {
		Endpoints []Endpoint
	}{
		Endpoints: sortedEndpoints,
	}

	if err := tmpl.Execute(os.Stdout, data); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing template: %v\n", err)
		os.Exit(1)
	}
}
