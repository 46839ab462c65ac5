package channel

import "testing"

func Test_UnitPipeChannelReadWrite(t *testing.T) {
	p, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe() error = %v", err)
	}
	defer p.CloseBoth()

	msg := []byte("hello flow")
	n, err := p.Write(msg)
	if err != nil || n != len(msg) {
		t.Fatalf("Write() = %d, %v; want %d, nil", n, err, len(msg))
	}

	buf := make([]byte, len(msg))
	n, err = p.Read(buf)
	if err != nil || n != len(msg) {
		t.Fatalf("Read() = %d, %v; want %d, nil", n, err, len(msg))
	}
	if string(buf) != string(msg) {
		t.Errorf("Read() = %q, want %q", buf, msg)
	}
}

func Test_UnitPipeChannelCloseIdempotent(t *testing.T) {
	p, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe() error = %v", err)
	}
	p.Close(ReadSide)
	p.Close(ReadSide) // must not panic
	if p.FD(ReadSide) != -1 {
		t.Errorf("FD(ReadSide) after close = %d, want -1", p.FD(ReadSide))
	}
	p.CloseBoth()
}

func Test_UnitPipeEndRespectsSide(t *testing.T) {
	p, err := NewPipe()
	if err != nil {
		t.Fatalf("NewPipe() error = %v", err)
	}
	defer p.CloseBoth()

	r := p.ReadCloser()
	if _, err := r.Write([]byte("x")); err == nil {
		t.Errorf("writing to the read end should fail")
	}

	w := p.WriteCloser()
	if _, err := w.Read(make([]byte, 1)); err == nil {
		t.Errorf("reading from the write end should fail")
	}
}
