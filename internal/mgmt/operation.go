package mgmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// AddressElement is one key=value segment of a resource address.
type AddressElement struct {
	Key   string
	Value string
}

// Operation is the structured (DMR) form of a management command.
type Operation struct {
	Address []AddressElement
	Name    string
	Params  map[string]any
}

// ParseOperation translates a command such as "/subsystem=datasources/data-source=MainDS:test-connection-in-pool"
// or ":read-attribute(name=server-state)" into its structured form.
func ParseOperation(command string) (Operation, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return Operation{}, fmt.Errorf("command cannot be empty")
	}

	idx := strings.LastIndex(command, ":")
	if idx == -1 {
		return Operation{}, fmt.Errorf("command '%s' is missing an operation", command)
	}

	address, err := parseAddress(command[:idx])
	if err != nil {
		return Operation{}, fmt.Errorf("command '%s': %w", command, err)
	}

	name, params, err := parseInvocation(command[idx+1:])
	if err != nil {
		return Operation{}, fmt.Errorf("command '%s': %w", command, err)
	}

	return Operation{
		Address: address,
		Name:    name,
		Params:  params,
	}, nil
}

// MarshalJSON renders the operation as a flat DMR request object.
func (o Operation) MarshalJSON() ([]byte, error) {
	req := make(map[string]any, len(o.Params)+2)
	for k, v := range o.Params {
		req[k] = v
	}
	req["operation"] = o.Name
	req["address"] = o.Address
	return json.Marshal(req)
}

// MarshalJSON renders the element as a single key object, e.g. {"subsystem":"datasources"}.
func (e AddressElement) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	key, err := json.Marshal(e.Key)
	if err != nil {
		return nil, err
	}
	value, err := json.Marshal(e.Value)
	if err != nil {
		return nil, err
	}
	buf.WriteByte('{')
	buf.Write(key)
	buf.WriteByte(':')
	buf.Write(value)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// String renders the operation back into command syntax.
func (o Operation) String() string {
	var b strings.Builder
	for _, e := range o.Address {
		b.WriteString("/" + e.Key + "=" + e.Value)
	}
	b.WriteString(":" + o.Name)
	if len(o.Params) > 0 {
		parts := make([]string, 0, len(o.Params))
		for _, k := range slices.Sorted(maps.Keys(o.Params)) {
			parts = append(parts, fmt.Sprintf("%s=%v", k, o.Params[k]))
		}
		b.WriteString("(" + strings.Join(parts, ",") + ")")
	}
	return b.String()
}

func parseAddress(s string) ([]AddressElement, error) {
	address := []AddressElement{}
	s = strings.TrimSpace(s)
	if s == "" || s == "/" {
		return address, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("address must start with '/'")
	}

	for _, segment := range strings.Split(strings.TrimPrefix(s, "/"), "/") {
		key, value, ok := strings.Cut(segment, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if !ok || key == "" || value == "" {
			return nil, fmt.Errorf("invalid address segment '%s'", segment)
		}
		address = append(address, AddressElement{Key: key, Value: value})
	}

	return address, nil
}

func parseInvocation(s string) (string, map[string]any, error) {
	s = strings.TrimSpace(s)
	params := map[string]any{}

	name, rest, hasParams := strings.Cut(s, "(")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, fmt.Errorf("operation name cannot be empty")
	}
	if !hasParams {
		return name, params, nil
	}
	if !strings.HasSuffix(rest, ")") {
		return "", nil, fmt.Errorf("unterminated parameter list")
	}

	rest = strings.TrimSpace(strings.TrimSuffix(rest, ")"))
	if rest == "" {
		return name, params, nil
	}

	for _, pair := range strings.Split(rest, ",") {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if !ok || k == "" {
			return "", nil, fmt.Errorf("invalid parameter '%s'", pair)
		}
		params[k] = paramValue(v)
	}

	return name, params, nil
}

func paramValue(v string) any {
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	default:
		return v
	}
}
