package vboxapi

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vboxgo/vboxapi/internal/api/nativetest"
	"github.com/vboxgo/vboxapi/types"
)

// fakeProgress completes after the given number of WaitForCompletion
// calls with result code rc.
type fakeProgress struct {
	native   *nativetest.Object
	waits    atomic.Int32
	timeouts []int32
	cancels  atomic.Int32
}

func newFakeProgress(f *fixture, doneAfter int32, rc types.ResultCode) *fakeProgress {
	p := &fakeProgress{}
	p.native = f.w.NewObject("IProgress").
		On("GetCompleted", func(this, out uintptr) uint32 {
			nativetest.PutBool(out, p.waits.Load() >= doneAfter)
			return 0
		}).
		On("WaitForCompletion", func(this, timeout uintptr) uint32 {
			p.timeouts = append(p.timeouts, int32(uint32(timeout)))
			p.waits.Add(1)
			return 0
		}).
		On("GetResultCode", func(this, out uintptr) uint32 {
			nativetest.PutU32(out, uint32(rc))
			return 0
		}).
		On("GetCancelable", func(this, out uintptr) uint32 {
			nativetest.PutBool(out, true)
			return 0
		}).
		On("Cancel", func(this uintptr) uint32 {
			p.cancels.Add(1)
			return 0
		}).
		On("GetErrorInfo", func(this, out uintptr) uint32 { return 0 })
	return p
}

func TestProgressWait(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	fake := newFakeProgress(f, 2, types.NS_OK)
	p := &Progress{f.wrap(fake.native)}

	require.NoError(t, p.Wait(context.Background(), 250*time.Millisecond))
	assert.EqualValues(t, 2, fake.waits.Load())
	assert.Equal(t, []int32{250, 250}, fake.timeouts)
	assert.Zero(t, fake.cancels.Load())
}

func TestProgressWaitFailure(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	fake := newFakeProgress(f, 0, types.VBOX_E_FILE_ERROR)
	info := f.w.NewObject("IVirtualBoxErrorInfo").On("GetText", func(this, out uintptr) uint32 {
		nativetest.PutPtr(out, f.w.String("Could not find file 'disk.vdi'"))
		return 0
	})
	handOut(fake.native, "GetErrorInfo", info)
	p := &Progress{f.wrap(fake.native)}

	err := p.Wait(context.Background(), 0)
	ve := requireKind(t, err, types.KindNative)
	assert.Equal(t, types.VBOX_E_FILE_ERROR, ve.Code)
	assert.Equal(t, "Could not find file 'disk.vdi'", ve.Msg)
	assert.Zero(t, info.Refs())
	assert.Zero(t, f.w.LiveStrings())
}

func TestProgressWaitCanceled(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	fake := newFakeProgress(f, 100, types.NS_OK)
	p := &Progress{f.wrap(fake.native)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Wait(ctx, time.Millisecond)
	require.ErrorIs(t, err, context.Canceled)
	assert.EqualValues(t, 1, fake.cancels.Load())
	assert.Zero(t, fake.waits.Load())
}

func TestProgressWaitLongPoll(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	fake := newFakeProgress(f, 1, types.NS_OK)
	p := &Progress{f.wrap(fake.native)}

	// 2^32+5 ms would wrap to a 5 ms slice
	require.NoError(t, p.Wait(context.Background(), (1<<32+5)*time.Millisecond))
	assert.Equal(t, []int32{math.MaxInt32}, fake.timeouts)
}

func TestProgressWaitForCompletionNegativeTimeout(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	fake := newFakeProgress(f, 0, types.NS_OK)
	p := &Progress{f.wrap(fake.native)}

	require.NoError(t, p.WaitForCompletion(-1))
	require.NoError(t, p.WaitForCompletion(30))
	assert.Equal(t, []int32{math.MaxInt32, 30}, fake.timeouts)
}

func TestErrorInfoChain(t *testing.T) {
	f := newFixture(t, types.APIv7_1)
	inner := f.w.NewObject("IVirtualBoxErrorInfo").On("GetComponent", func(this, out uintptr) uint32 {
		nativetest.PutPtr(out, f.w.String("VirtualBoxWrap"))
		return 0
	}).On("GetNext", func(this, out uintptr) uint32 { return 0 })
	outer := f.w.NewObject("IVirtualBoxErrorInfo")
	handOut(outer, "GetNext", inner)
	info := &ErrorInfo{f.wrap(outer)}

	next, ok, err := info.Next()
	require.NoError(t, err)
	require.True(t, ok)
	component, err := next.Component()
	require.NoError(t, err)
	assert.Equal(t, "VirtualBoxWrap", component)

	_, ok, err = next.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}
