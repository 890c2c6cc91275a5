package classfile

import (
	"fmt"
	"math"
	"strconv"

	"github.com/brome-lang/jvm/constant"
)

// Constant pool entry tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagInvokeDynamic      = 18
)

// maxPoolEntries leaves room for the count field, which is one greater than
// the number of entries.
const maxPoolEntries = 0xFFFE

// entry is a single constant pool entry. The meaning of a and b depends on
// the tag; str holds Utf8 payloads and bits holds numeric payloads. A zero
// tag marks the unusable second slot of a long or double entry.
type entry struct {
	tag  uint8
	a, b uint16
	str  string
	bits uint64
}

// Pool is a class file constant pool. Entries are deduplicated: adding the
// same constant twice returns the same index. Long and double entries
// occupy two slots, as the format requires.
type Pool struct {
	entries []entry
	seen    map[string]uint16
}

// NewPool returns an empty constant pool.
func NewPool() *Pool {
	return &Pool{seen: make(map[string]uint16)}
}

// Count returns the value of the constant_pool_count field, which is one
// greater than the number of slots in use.
func (p *Pool) Count() int {
	return len(p.entries) + 1
}

func (p *Pool) add(key string, e entry, wide bool) (uint16, error) {
	if idx, ok := p.seen[key]; ok {
		return idx, nil
	}
	need := 1
	if wide {
		need = 2
	}
	if len(p.entries)+need > maxPoolEntries {
		return 0, fmt.Errorf("constant pool overflow: %d entries", len(p.entries))
	}
	p.entries = append(p.entries, e)
	idx := uint16(len(p.entries))
	if wide {
		p.entries = append(p.entries, entry{})
	}
	p.seen[key] = idx
	return idx, nil
}

// Utf8 adds a CONSTANT_Utf8_info entry.
func (p *Pool) Utf8(s string) (uint16, error) {
	if len(encodeModifiedUTF8(s)) > math.MaxUint16 {
		return 0, fmt.Errorf("utf8 constant too long: %d bytes", len(s))
	}
	return p.add("u:"+s, entry{tag: tagUtf8, str: s}, false)
}

// Integer adds a CONSTANT_Integer_info entry.
func (p *Pool) Integer(v int32) (uint16, error) {
	key := "i:" + strconv.FormatInt(int64(v), 10)
	return p.add(key, entry{tag: tagInteger, bits: uint64(uint32(v))}, false)
}

// Float adds a CONSTANT_Float_info entry. Values are deduplicated by bit
// pattern, so distinct NaN payloads stay distinct.
func (p *Pool) Float(v float32) (uint16, error) {
	bits := math.Float32bits(v)
	key := "f:" + strconv.FormatUint(uint64(bits), 10)
	return p.add(key, entry{tag: tagFloat, bits: uint64(bits)}, false)
}

// Long adds a CONSTANT_Long_info entry, which occupies two pool slots.
func (p *Pool) Long(v int64) (uint16, error) {
	key := "l:" + strconv.FormatInt(v, 10)
	return p.add(key, entry{tag: tagLong, bits: uint64(v)}, true)
}

// Double adds a CONSTANT_Double_info entry, which occupies two pool slots.
// Values are deduplicated by bit pattern.
func (p *Pool) Double(v float64) (uint16, error) {
	bits := math.Float64bits(v)
	key := "d:" + strconv.FormatUint(bits, 10)
	return p.add(key, entry{tag: tagDouble, bits: bits}, true)
}

// Class adds a CONSTANT_Class_info entry for the given internal name.
func (p *Pool) Class(name string) (uint16, error) {
	nameIdx, err := p.Utf8(name)
	if err != nil {
		return 0, err
	}
	return p.add(fmt.Sprintf("c:%d", nameIdx), entry{tag: tagClass, a: nameIdx}, false)
}

// StringConst adds a CONSTANT_String_info entry.
func (p *Pool) StringConst(s string) (uint16, error) {
	strIdx, err := p.Utf8(s)
	if err != nil {
		return 0, err
	}
	return p.add(fmt.Sprintf("s:%d", strIdx), entry{tag: tagString, a: strIdx}, false)
}

// NameAndType adds a CONSTANT_NameAndType_info entry.
func (p *Pool) NameAndType(name, desc string) (uint16, error) {
	nameIdx, err := p.Utf8(name)
	if err != nil {
		return 0, err
	}
	descIdx, err := p.Utf8(desc)
	if err != nil {
		return 0, err
	}
	key := fmt.Sprintf("n:%d:%d", nameIdx, descIdx)
	return p.add(key, entry{tag: tagNameAndType, a: nameIdx, b: descIdx}, false)
}

// Fieldref adds a CONSTANT_Fieldref_info entry.
func (p *Pool) Fieldref(owner, name, desc string) (uint16, error) {
	classIdx, err := p.Class(owner)
	if err != nil {
		return 0, err
	}
	natIdx, err := p.NameAndType(name, desc)
	if err != nil {
		return 0, err
	}
	key := fmt.Sprintf("fr:%d:%d", classIdx, natIdx)
	return p.add(key, entry{tag: tagFieldref, a: classIdx, b: natIdx}, false)
}

// Methodref adds a CONSTANT_Methodref_info entry, or a
// CONSTANT_InterfaceMethodref_info entry when the owner is an interface.
func (p *Pool) Methodref(owner, name, desc string, ownerIsInterface bool) (uint16, error) {
	classIdx, err := p.Class(owner)
	if err != nil {
		return 0, err
	}
	natIdx, err := p.NameAndType(name, desc)
	if err != nil {
		return 0, err
	}
	tag := uint8(tagMethodref)
	if ownerIsInterface {
		tag = tagInterfaceMethodref
	}
	key := fmt.Sprintf("mr:%d:%d:%d", tag, classIdx, natIdx)
	return p.add(key, entry{tag: tag, a: classIdx, b: natIdx}, false)
}

// MethodType adds a CONSTANT_MethodType_info entry carrying the descriptor
// exactly as given.
func (p *Pool) MethodType(desc string) (uint16, error) {
	descIdx, err := p.Utf8(desc)
	if err != nil {
		return 0, err
	}
	return p.add(fmt.Sprintf("mt:%d", descIdx), entry{tag: tagMethodType, a: descIdx}, false)
}

// MethodHandle adds a CONSTANT_MethodHandle_info entry. The handle kind
// selects the referenced entry type: field kinds reference a Fieldref,
// method kinds a Methodref or InterfaceMethodref per IsInterface.
func (p *Pool) MethodHandle(h constant.Handle) (uint16, error) {
	if !h.Kind.Valid() {
		return 0, fmt.Errorf("invalid method handle kind %d", uint8(h.Kind))
	}
	var refIdx uint16
	var err error
	if h.Kind.IsField() {
		refIdx, err = p.Fieldref(h.Owner, h.Name, h.Descriptor)
	} else {
		refIdx, err = p.Methodref(h.Owner, h.Name, h.Descriptor, h.IsInterface)
	}
	if err != nil {
		return 0, err
	}
	key := fmt.Sprintf("mh:%d:%d", h.Kind, refIdx)
	return p.add(key, entry{tag: tagMethodHandle, a: uint16(h.Kind), b: refIdx}, false)
}

// InvokeDynamic adds a CONSTANT_InvokeDynamic_info entry referencing an
// entry of the bootstrap methods table.
func (p *Pool) InvokeDynamic(bootstrap uint16, name, desc string) (uint16, error) {
	natIdx, err := p.NameAndType(name, desc)
	if err != nil {
		return 0, err
	}
	key := fmt.Sprintf("id:%d:%d", bootstrap, natIdx)
	return p.add(key, entry{tag: tagInvokeDynamic, a: bootstrap, b: natIdx}, false)
}

// Constant adds a resolved constant value, dispatching to the entry type
// matching its form.
func (p *Pool) Constant(v constant.Value) (uint16, error) {
	switch c := v.(type) {
	case constant.Int32:
		return p.Integer(int32(c))
	case constant.Int64:
		return p.Long(int64(c))
	case constant.Float32:
		return p.Float(float32(c))
	case constant.Float64:
		return p.Double(float64(c))
	case constant.String:
		return p.StringConst(string(c))
	case constant.MethodType:
		return p.MethodType(c.Descriptor)
	case constant.Handle:
		return p.MethodHandle(c)
	default:
		return 0, fmt.Errorf("unsupported constant %T", v)
	}
}

// Wide reports whether the entry at the given index occupies two slots.
func (p *Pool) Wide(index uint16) bool {
	if int(index) < 1 || int(index) > len(p.entries) {
		return false
	}
	tag := p.entries[index-1].tag
	return tag == tagLong || tag == tagDouble
}

// utf8At returns the Utf8 payload at the given index, or a placeholder for
// indices that do not point at a Utf8 entry.
func (p *Pool) utf8At(index uint16) string {
	if int(index) < 1 || int(index) > len(p.entries) {
		return "?"
	}
	e := p.entries[index-1]
	if e.tag != tagUtf8 {
		return "?"
	}
	return e.str
}

func (p *Pool) classNameAt(index uint16) string {
	if int(index) < 1 || int(index) > len(p.entries) {
		return "?"
	}
	e := p.entries[index-1]
	if e.tag != tagClass {
		return "?"
	}
	return p.utf8At(e.a)
}

func (p *Pool) nameAndTypeAt(index uint16) string {
	if int(index) < 1 || int(index) > len(p.entries) {
		return "?"
	}
	e := p.entries[index-1]
	if e.tag != tagNameAndType {
		return "?"
	}
	return p.utf8At(e.a) + ":" + p.utf8At(e.b)
}

// Describe returns a human readable rendering of the entry at the given
// index, in the style of javap's constant pool listing. It returns an
// empty string for index zero and for the second slot of a long or double.
func (p *Pool) Describe(index uint16) string {
	if int(index) < 1 || int(index) > len(p.entries) {
		return ""
	}
	e := p.entries[index-1]
	switch e.tag {
	case 0:
		return ""
	case tagUtf8:
		return "Utf8 " + strconv.Quote(e.str)
	case tagInteger:
		return "Integer " + constant.Int32(int32(uint32(e.bits))).String()
	case tagFloat:
		return "Float " + constant.Float32(math.Float32frombits(uint32(e.bits))).String()
	case tagLong:
		return "Long " + constant.Int64(int64(e.bits)).String()
	case tagDouble:
		return "Double " + constant.Float64(math.Float64frombits(e.bits)).String()
	case tagClass:
		return "Class " + p.utf8At(e.a)
	case tagString:
		return "String " + strconv.Quote(p.utf8At(e.a))
	case tagFieldref:
		return "Fieldref " + p.classNameAt(e.a) + "." + p.nameAndTypeAt(e.b)
	case tagMethodref:
		return "Methodref " + p.classNameAt(e.a) + "." + p.nameAndTypeAt(e.b)
	case tagInterfaceMethodref:
		return "InterfaceMethodref " + p.classNameAt(e.a) + "." + p.nameAndTypeAt(e.b)
	case tagNameAndType:
		return "NameAndType " + p.nameAndTypeAt(index)
	case tagMethodHandle:
		return "MethodHandle " + constant.HandleKind(e.a).String() + " " + p.describeRef(e.b)
	case tagMethodType:
		return "MethodType " + p.utf8At(e.a)
	case tagInvokeDynamic:
		return fmt.Sprintf("InvokeDynamic #%d:%s", e.a, p.nameAndTypeAt(e.b))
	default:
		return fmt.Sprintf("tag(%d)", e.tag)
	}
}

func (p *Pool) describeRef(index uint16) string {
	if int(index) < 1 || int(index) > len(p.entries) {
		return "?"
	}
	e := p.entries[index-1]
	return p.classNameAt(e.a) + "." + p.nameAndTypeAt(e.b)
}

// write serializes the constant_pool_count field and every entry.
func (p *Pool) write(w *writer) {
	w.u16(uint16(p.Count()))
	for _, e := range p.entries {
		switch e.tag {
		case 0:
			// second slot of a long or double; nothing on the wire
		case tagUtf8:
			w.u8(e.tag)
			data := encodeModifiedUTF8(e.str)
			w.u16(uint16(len(data)))
			w.bytes(data)
		case tagInteger, tagFloat:
			w.u8(e.tag)
			w.u32(uint32(e.bits))
		case tagLong, tagDouble:
			w.u8(e.tag)
			w.u64(e.bits)
		case tagClass, tagString, tagMethodType:
			w.u8(e.tag)
			w.u16(e.a)
		case tagMethodHandle:
			w.u8(e.tag)
			w.u8(uint8(e.a))
			w.u16(e.b)
		default:
			// Fieldref, Methodref, InterfaceMethodref, NameAndType,
			// InvokeDynamic: two u16 operands
			w.u8(e.tag)
			w.u16(e.a)
			w.u16(e.b)
		}
	}
}

// encodeModifiedUTF8 encodes a string in the modified UTF-8 form used by
// class files: NUL becomes the two-byte sequence 0xC0 0x80 and
// supplementary characters become surrogate pairs, each encoded on three
// bytes.
func encodeModifiedUTF8(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r == 0:
			out = append(out, 0xC0, 0x80)
		case r < 0x80:
			out = append(out, byte(r))
		case r < 0x800:
			out = append(out, 0xC0|byte(r>>6), 0x80|byte(r&0x3F))
		case r < 0x10000:
			out = append(out, 0xE0|byte(r>>12), 0x80|byte(r>>6&0x3F), 0x80|byte(r&0x3F))
		default:
			r -= 0x10000
			hi := 0xD800 | (r >> 10)
			lo := 0xDC00 | (r & 0x3FF)
			out = append(out, 0xE0|byte(hi>>12), 0x80|byte(hi>>6&0x3F), 0x80|byte(hi&0x3F))
			out = append(out, 0xE0|byte(lo>>12), 0x80|byte(lo>>6&0x3F), 0x80|byte(lo&0x3F))
		}
	}
	return out
}
