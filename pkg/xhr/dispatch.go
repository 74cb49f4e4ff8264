package xhr

import "sync"

// dispatcher serializes handler calls for one transfer. Upload events can
// originate on the transport's body-writing goroutine, so every call goes
// through mu.
type dispatcher struct {
	mu       sync.Mutex
	t        *Transfer
	download Callbacks
	upload   Callbacks
	resolve  ResolveFunc
	reject   RejectFunc

	uploadLoaded int64
	uploadDone   bool
}

func (d *dispatcher) fire(typ EventType, upload bool, loaded, total int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fireLocked(typ, upload, loaded, total)
}

func (d *dispatcher) fireLocked(typ EventType, upload bool, loaded, total int64) {
	cbs := d.download
	if upload {
		cbs = d.upload
	}
	h := cbs.handler(typ)
	if h == nil {
		return
	}
	h(&Event{
		Type:             typ,
		Target:           d.t,
		Upload:           upload,
		Loaded:           loaded,
		Total:            total,
		LengthComputable: total >= 0,
	}, d.resolve, d.reject)
}

func (d *dispatcher) uploadProgress(loaded, total int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.uploadDone {
		return
	}
	d.uploadLoaded = loaded
	d.fireLocked(EventProgress, true, loaded, total)
}

// finishUpload fires the upload channel's terminal event and loadend, once.
func (d *dispatcher) finishUpload(typ EventType, total int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.uploadDone {
		return
	}
	d.uploadDone = true
	loaded := d.uploadLoaded
	if typ == EventLoad && total >= 0 {
		loaded = total
	}
	d.fireLocked(typ, true, loaded, total)
	d.fireLocked(EventLoadEnd, true, loaded, total)
}

func (d *dispatcher) setErr(err error) {
	d.mu.Lock()
	d.t.err = err
	d.mu.Unlock()
}
