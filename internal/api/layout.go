package api

import (
	"embed"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vboxgo/vboxapi/types"
)

//go:embed layouts/*.yaml
var embeddedLayouts embed.FS

// InterfaceLayout is the vtable shape of one interface in one API version.
type InterfaceLayout struct {
	Name string
	// IID is zero for interfaces the binding never queries for.
	IID types.IID
	// Size is the number of vtable slots including the nsISupports prefix.
	Size  int
	Slots map[string]int
}

type layoutDoc struct {
	Version    types.APIVersion           `yaml:"version"`
	Interfaces map[string]layoutInterface `yaml:"interfaces"`
}

type layoutInterface struct {
	IID   string         `yaml:"iid"`
	Size  int            `yaml:"size"`
	Slots map[string]int `yaml:"slots"`
}

// LayoutTable maps interface names to their layout.
type LayoutTable map[string]*InterfaceLayout

// ParseLayoutTable decodes one YAML layout document.
func ParseLayoutTable(bz []byte) (types.APIVersion, LayoutTable, error) {
	var doc layoutDoc
	if err := yaml.Unmarshal(bz, &doc); err != nil {
		return types.APIUnknown, nil, errors.Wrap(err, "decode layout")
	}
	table := make(LayoutTable, len(doc.Interfaces))
	for name, li := range doc.Interfaces {
		l, err := li.resolve(name)
		if err != nil {
			return types.APIUnknown, nil, err
		}
		table[name] = l
	}
	return doc.Version, table, nil
}

func (li layoutInterface) resolve(name string) (*InterfaceLayout, error) {
	l := &InterfaceLayout{Name: name, Size: li.Size, Slots: make(map[string]int, len(li.Slots))}
	if li.IID != "" {
		l.IID = types.ParseIID(li.IID)
		if l.IID.IsZero() {
			return nil, types.ParseError("layout "+name, "malformed iid "+li.IID)
		}
	}
	for method, slot := range li.Slots {
		if slot < 3 {
			return nil, types.ParseError("layout "+name, method+" overlaps the nsISupports slots")
		}
		if l.Size != 0 && slot >= l.Size {
			return nil, types.ParseError("layout "+name, method+" lies past the end of the vtable")
		}
		l.Slots[method] = slot
	}
	return l, nil
}

// Layouts resolves method names to vtable slots for the active API
// version. Tables of the other versions are kept to tell "not in this
// version" apart from "unknown method".
type Layouts struct {
	version types.APIVersion
	tables  map[types.APIVersion]LayoutTable
}

// LoadLayouts reads the embedded tables and applies an optional override
// file to the table of version.
func LoadLayouts(version types.APIVersion, overridePath string) (*Layouts, error) {
	tables := make(map[types.APIVersion]LayoutTable, len(types.SupportedAPIVersions))
	for _, v := range types.SupportedAPIVersions {
		bz, err := embeddedLayouts.ReadFile("layouts/" + v.String() + ".yaml")
		if err != nil {
			return nil, errors.Wrapf(err, "embedded layout %s", v)
		}
		docVer, table, err := ParseLayoutTable(bz)
		if err != nil {
			return nil, errors.Wrapf(err, "embedded layout %s", v)
		}
		if docVer != v {
			return nil, errors.Errorf("embedded layout %s declares version %s", v, docVer)
		}
		tables[v] = table
	}

	l, err := NewLayouts(version, tables)
	if err != nil {
		return nil, err
	}
	if overridePath != "" {
		bz, err := os.ReadFile(overridePath)
		if err != nil {
			return nil, errors.Wrap(err, "read layout override")
		}
		if err := l.Override(bz); err != nil {
			return nil, errors.Wrapf(err, "layout override %s", overridePath)
		}
	}
	return l, nil
}

// NewLayouts builds Layouts from already parsed tables.
func NewLayouts(version types.APIVersion, tables map[types.APIVersion]LayoutTable) (*Layouts, error) {
	if _, ok := tables[version]; !ok {
		return nil, errors.Errorf("no layout for api version %s", version)
	}
	return &Layouts{version: version, tables: tables}, nil
}

// Override merges a YAML document into the active table. Interfaces are
// added or extended; a non-empty iid or size replaces the embedded one.
func (l *Layouts) Override(bz []byte) error {
	ver, table, err := ParseLayoutTable(bz)
	if err != nil {
		return err
	}
	if ver != types.APIUnknown && ver != l.version {
		return errors.Errorf("override targets %s, active version is %s", ver, l.version)
	}
	active := l.tables[l.version]
	for name, over := range table {
		cur, ok := active[name]
		if !ok {
			active[name] = over
			continue
		}
		if !over.IID.IsZero() {
			cur.IID = over.IID
		}
		if over.Size != 0 {
			cur.Size = over.Size
		}
		for method, slot := range over.Slots {
			cur.Slots[method] = slot
		}
	}
	return nil
}

func (l *Layouts) Version() types.APIVersion {
	return l.version
}

// Interface returns the active layout of iface.
func (l *Layouts) Interface(iface string) (*InterfaceLayout, bool) {
	il, ok := l.tables[l.version][iface]
	return il, ok
}

// Slot returns the vtable index of iface.method in the active version.
func (l *Layouts) Slot(iface, method string) (int, error) {
	op := iface + "." + method
	if il, ok := l.Interface(iface); ok {
		if slot, ok := il.Slots[method]; ok {
			return slot, nil
		}
	}
	if since, ok := l.introducedIn(iface, method); ok {
		return 0, types.UnsupportedInCurrentAPIVersion(op, since)
	}
	return 0, types.FunctionNotFound(op)
}

// introducedIn finds the first version after the active one that has the
// method.
func (l *Layouts) introducedIn(iface, method string) (types.APIVersion, bool) {
	for _, v := range types.SupportedAPIVersions {
		if v <= l.version {
			continue
		}
		if il, ok := l.tables[v][iface]; ok {
			if _, ok := il.Slots[method]; ok {
				return v, true
			}
		}
	}
	return types.APIUnknown, false
}

// IID returns the interface ID of iface.
func (l *Layouts) IID(iface string) (types.IID, error) {
	il, ok := l.Interface(iface)
	if !ok || il.IID.IsZero() {
		return types.IID{}, types.FunctionNotFound(iface + ".IID")
	}
	return il.IID, nil
}

// Methods lists the method names of iface ordered by slot.
func (l *Layouts) Methods(iface string) []string {
	il, ok := l.Interface(iface)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(il.Slots))
	for name := range il.Slots {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return il.Slots[names[i]] < il.Slots[names[j]] })
	return names
}
