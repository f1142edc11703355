package vboxapi

import (
	"context"
	"math"
	"time"

	"github.com/vboxgo/vboxapi/internal/api"
	"github.com/vboxgo/vboxapi/types"
)

// defaultPoll is the wait slice of Progress.Wait.
const defaultPoll = 100 * time.Millisecond

// maxPoll is the longest slice a single WaitForCompletion can express.
const maxPoll = math.MaxInt32 * time.Millisecond

// Progress is IProgress, the handle of an asynchronous task.
type Progress struct {
	object
}

func (p *Progress) ID() (string, error) {
	return api.CallString(p.obj, "GetId")
}

func (p *Progress) Description() (string, error) {
	return api.CallString(p.obj, "GetDescription")
}

func (p *Progress) Cancelable() (bool, error) {
	return api.CallBool(p.obj, "GetCancelable")
}

func (p *Progress) Percent() (uint32, error) {
	return api.CallNumber[uint32](p.obj, "GetPercent")
}

// TimeRemaining is in seconds, -1 when unknown.
func (p *Progress) TimeRemaining() (int32, error) {
	return api.CallNumber[int32](p.obj, "GetTimeRemaining")
}

func (p *Progress) Completed() (bool, error) {
	return api.CallBool(p.obj, "GetCompleted")
}

func (p *Progress) Canceled() (bool, error) {
	return api.CallBool(p.obj, "GetCanceled")
}

// ResultCode is only meaningful once Completed.
func (p *Progress) ResultCode() (types.ResultCode, error) {
	raw, err := api.CallNumber[uint32](p.obj, "GetResultCode")
	return types.ResultCode(raw), err
}

// ErrorInfo describes a failed task. ok is false when the task
// succeeded or has not finished.
func (p *Progress) ErrorInfo() (*ErrorInfo, bool, error) {
	o, ok, err := api.CallOptionalObject(p.obj, "GetErrorInfo", "IVirtualBoxErrorInfo")
	if err != nil || !ok {
		return nil, false, err
	}
	return &ErrorInfo{object{o}}, true, nil
}

func (p *Progress) OperationCount() (uint32, error) {
	return api.CallNumber[uint32](p.obj, "GetOperationCount")
}

func (p *Progress) OperationDescription() (string, error) {
	return api.CallString(p.obj, "GetOperationDescription")
}

func (p *Progress) EventSource() (*EventSource, error) {
	o, err := api.CallObject(p.obj, "GetEventSource", "IEventSource")
	if err != nil {
		return nil, err
	}
	return &EventSource{object{o}}, nil
}

// WaitForCompletion blocks for up to timeoutMS milliseconds. A negative
// timeout waits as long as the native side allows.
func (p *Progress) WaitForCompletion(timeoutMS int32) error {
	if timeoutMS < 0 {
		timeoutMS = math.MaxInt32
	}
	return api.CallUnit(p.obj, "WaitForCompletion", api.I32("timeout", timeoutMS))
}

func (p *Progress) WaitForOperationCompletion(operation uint32, timeoutMS int32) error {
	if timeoutMS < 0 {
		timeoutMS = math.MaxInt32
	}
	return api.CallUnit(p.obj, "WaitForOperationCompletion",
		api.U32("operation", operation),
		api.I32("timeout", timeoutMS),
	)
}

func (p *Progress) Cancel() error {
	return api.CallUnit(p.obj, "Cancel")
}

// Wait polls until the task completes, in slices of poll, and returns
// the task's failure as an error. When ctx ends first a cancelable task
// is canceled and ctx.Err() returned.
func (p *Progress) Wait(ctx context.Context, poll time.Duration) error {
	if poll <= 0 {
		poll = defaultPoll
	}
	if poll > maxPoll {
		poll = maxPoll
	}
	for {
		done, err := p.Completed()
		if err != nil {
			return err
		}
		if done {
			return p.Err()
		}
		if err := ctx.Err(); err != nil {
			p.cancelQuietly()
			return err
		}
		if err := p.WaitForCompletion(int32(poll / time.Millisecond)); err != nil {
			return err
		}
	}
}

func (p *Progress) cancelQuietly() {
	log := p.obj.Runtime().Logger()
	cancelable, err := p.Cancelable()
	if err != nil || !cancelable {
		return
	}
	if err := p.Cancel(); err != nil {
		log.Warn().Err(err).Msg("cancel progress")
	}
}

// Err returns nil for a task that completed successfully, and otherwise
// a native error carrying the result code and error text.
func (p *Progress) Err() error {
	rc, err := p.ResultCode()
	if err != nil {
		return err
	}
	if rc == types.NS_OK {
		return nil
	}
	msg := ""
	if info, ok, err := p.ErrorInfo(); err == nil && ok {
		msg, _ = info.Text()
		_ = info.Release()
	}
	return types.NewNativeError(rc, "IProgress", msg)
}

// ErrorInfo is IVirtualBoxErrorInfo. Errors can be chained through Next.
type ErrorInfo struct {
	object
}

func (e *ErrorInfo) ResultCode() (types.ResultCode, error) {
	raw, err := api.CallNumber[uint32](e.obj, "GetResultCode")
	return types.ResultCode(raw), err
}

func (e *ErrorInfo) ResultDetail() (int32, error) {
	return api.CallNumber[int32](e.obj, "GetResultDetail")
}

// InterfaceID names the interface that raised the error.
func (e *ErrorInfo) InterfaceID() (string, error) {
	return api.CallString(e.obj, "GetInterfaceID")
}

func (e *ErrorInfo) Component() (string, error) {
	return api.CallString(e.obj, "GetComponent")
}

func (e *ErrorInfo) Text() (string, error) {
	return api.CallString(e.obj, "GetText")
}

// Next is the error that caused this one, if any.
func (e *ErrorInfo) Next() (*ErrorInfo, bool, error) {
	o, ok, err := api.CallOptionalObject(e.obj, "GetNext", "IVirtualBoxErrorInfo")
	if err != nil || !ok {
		return nil, false, err
	}
	return &ErrorInfo{object{o}}, true, nil
}
