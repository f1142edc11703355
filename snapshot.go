package vboxapi

import (
	"time"

	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// Snapshot is ISnapshot.
type Snapshot struct {
	object
}

func (s *Snapshot) ID() (string, error) {
	return api.CallString(s.obj, "GetId")
}

func (s *Snapshot) Name() (string, error) {
	return api.CallString(s.obj, "GetName")
}

func (s *Snapshot) SetName(name string) error {
	return api.CallUnit(s.obj, "SetName", api.Str("name", name))
}

func (s *Snapshot) Description() (string, error) {
	return api.CallString(s.obj, "GetDescription")
}

func (s *Snapshot) SetDescription(description string) error {
	return api.CallUnit(s.obj, "SetDescription", api.Str("description", description))
}

// TimeStamp is when the snapshot was taken.
func (s *Snapshot) TimeStamp() (time.Time, error) {
	ms, err := api.CallNumber[int64](s.obj, "GetTimeStamp")
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}

// Online reports whether the snapshot holds a saved execution state.
func (s *Snapshot) Online() (bool, error) {
	return api.CallBool(s.obj, "GetOnline")
}

// Machine is the read-only machine the snapshot captured.
func (s *Snapshot) Machine() (*Machine, error) {
	o, err := api.CallObject(s.obj, "GetMachine", "IMachine")
	if err != nil {
		return nil, err
	}
	return &Machine{object{o}}, nil
}

// Parent reports ok == false for the first snapshot of a machine.
func (s *Snapshot) Parent() (*Snapshot, bool, error) {
	o, ok, err := api.CallOptionalObject(s.obj, "GetParent", "ISnapshot")
	if err != nil || !ok {
		return nil, false, err
	}
	return &Snapshot{object{o}}, true, nil
}

func (s *Snapshot) Children() ([]*Snapshot, error) {
	objs, err := api.CallObjectSlice(s.obj, "GetChildren", "ISnapshot")
	if err != nil {
		return nil, err
	}
	out := make([]*Snapshot, len(objs))
	for i, o := range objs {
		out[i] = &Snapshot{object{o}}
	}
	return out, nil
}

func (s *Snapshot) ChildrenCount() (uint32, error) {
	return api.CallNumber[uint32](s.obj, "GetChildrenCount")
}

// CurrentSnapshot reports ok == false when the machine has no snapshots.
func (m *Machine) CurrentSnapshot() (*Snapshot, bool, error) {
	o, ok, err := api.CallOptionalObject(m.obj, "GetCurrentSnapshot", "ISnapshot")
	if err != nil || !ok {
		return nil, false, err
	}
	return &Snapshot{object{o}}, true, nil
}

func (m *Machine) SnapshotCount() (uint32, error) {
	return api.CallNumber[uint32](m.obj, "GetSnapshotCount")
}

// FindSnapshot looks a snapshot up by name or UUID. An empty nameOrID
// returns the root snapshot.
func (m *Machine) FindSnapshot(nameOrID string) (*Snapshot, error) {
	o, err := api.CallObject(m.obj, "FindSnapshot", "ISnapshot", api.Str("nameOrId", nameOrID))
	if err != nil {
		return nil, err
	}
	return &Snapshot{object{o}}, nil
}

// TakeSnapshot must be called on the mutable machine of a locked session.
// It returns the new snapshot's UUID and the progress of the operation.
// pause suspends a running machine while its state is saved.
func (m *Machine) TakeSnapshot(name, description string, pause bool) (string, *Progress, error) {
	const op = "IMachine.TakeSnapshot"
	raw, err := api.CallOuts(m.obj, "TakeSnapshot", 2,
		api.Str("name", name),
		api.Str("description", description),
		api.Bool("pause", pause),
	)
	if err != nil {
		return "", nil, err
	}
	rt := m.obj.Runtime()
	progress := uintptr(raw[1])
	id, err := rt.TakeString(op, uintptr(raw[0]))
	if err != nil {
		if progress != 0 {
			_ = api.NewObject(rt, "IProgress", progress).Release()
		}
		return "", nil, err
	}
	if progress == 0 {
		return "", nil, types.NullPointer(op)
	}
	return id, &Progress{object{api.NewObject(rt, "IProgress", progress)}}, nil
}

func (m *Machine) DeleteSnapshot(id string) (*Progress, error) {
	o, err := api.CallObject(m.obj, "DeleteSnapshot", "IProgress", api.Str("id", id))
	if err != nil {
		return nil, err
	}
	return &Progress{object{o}}, nil
}

func (m *Machine) DeleteSnapshotAndAllChildren(id string) (*Progress, error) {
	o, err := api.CallObject(m.obj, "DeleteSnapshotAndAllChildren", "IProgress", api.Str("id", id))
	if err != nil {
		return nil, err
	}
	return &Progress{object{o}}, nil
}

// RestoreSnapshot needs a locked session and a powered off machine.
func (m *Machine) RestoreSnapshot(s *Snapshot) (*Progress, error) {
	if s == nil {
		return nil, types.NullPointer("IMachine.RestoreSnapshot")
	}
	o, err := api.CallObject(m.obj, "RestoreSnapshot", "IProgress", api.Obj("snapshot", s.obj))
	if err != nil {
		return nil, err
	}
	return &Progress{object{o}}, nil
}
