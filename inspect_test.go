package l2encdec

import (
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestInspect(t *testing.T) {
	wire, _ := Encode(make([]byte, 300), testParams(414))
	info := Inspect(wire)

	if info.Size != len(wire) {
		t.Errorf("Size = %d, want %d", info.Size, len(wire))
	}
	if info.Header != "Lineage2Ver414" || info.Protocol != 414 || info.Variant != "rsa" {
		t.Errorf("Inspect = %+v", info)
	}
	if info.BodySize != len(wire)-HeaderSize-TailSize {
		t.Errorf("BodySize = %d", info.BodySize)
	}
	if info.RSABlocks != info.BodySize/rsaBlockSize || info.RSABlocks == 0 {
		t.Errorf("RSABlocks = %d", info.RSABlocks)
	}
	if !info.ChecksumOK || info.Stored != info.Computed || info.Error != "" {
		t.Errorf("checksum: %+v", info)
	}
}

func TestInspect_Tampered(t *testing.T) {
	wire, _ := Encode(testPlaintext(), testParams(111))
	wire[HeaderSize] ^= 0xFF

	info := Inspect(wire)
	if info.ChecksumOK {
		t.Error("ChecksumOK should be false")
	}
	if info.Stored == info.Computed {
		t.Error("stored and computed checksums should differ")
	}
	if !strings.Contains(info.Error, "checksum mismatch") {
		t.Errorf("Error = %q", info.Error)
	}
}

func TestInspect_Short(t *testing.T) {
	info := Inspect([]byte("tiny"))
	if info.Size != 4 || info.Error == "" || info.ChecksumOK {
		t.Errorf("Inspect = %+v", info)
	}
}

func TestInfo_Serialization(t *testing.T) {
	wire, _ := Encode(testPlaintext(), testParams(211))
	info := Inspect(wire)

	js, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("json.Marshal error: %v", err)
	}
	if !strings.Contains(string(js), `"protocol":211`) {
		t.Errorf("json = %s", js)
	}

	ys, err := yaml.Marshal(info)
	if err != nil {
		t.Fatalf("yaml.Marshal error: %v", err)
	}
	if !strings.Contains(string(ys), "checksum_ok: true") {
		t.Errorf("yaml = %s", ys)
	}
}
