package object

import "testing"

func TestGetAttributeInstanceDictShadowsType(t *testing.T) {
	base := newType("Base")
	base.Dict["greeting"] = Str("hello from type")

	inst := NewInstance(base)
	v, exc := GetAttribute(inst, "greeting")
	if exc != nil {
		t.Fatalf("GetAttribute returned %v", exc)
	}
	if v != Str("hello from type") {
		t.Fatalf("got %v, want type-dict value", v)
	}

	inst.SetAttr("greeting", Str("hello from instance"))
	v, exc = GetAttribute(inst, "greeting")
	if exc != nil {
		t.Fatalf("GetAttribute returned %v", exc)
	}
	if v != Str("hello from instance") {
		t.Fatalf("instance dict should shadow type dict, got %v", v)
	}
}

func TestGetAttributeWalksParentChainDepthFirst(t *testing.T) {
	grandparent := newType("Grandparent")
	grandparent.Dict["x"] = Int(1)
	parent := newType("Parent", grandparent)
	child := newType("Child", parent)

	inst := NewInstance(child)
	v, exc := GetAttribute(inst, "x")
	if exc != nil {
		t.Fatalf("GetAttribute returned %v", exc)
	}
	if v != Int(1) {
		t.Fatalf("got %v, want inherited value from grandparent", v)
	}
}

func TestGetAttributeMissingRaisesAttributeError(t *testing.T) {
	typ := newType("Empty")
	inst := NewInstance(typ)
	_, exc := GetAttribute(inst, "nope")
	if exc == nil {
		t.Fatal("expected AttributeError for missing attribute")
	}
	if exc.PyType() != AttributeErrorType {
		t.Fatalf("expected ATTRIBUTE_ERROR, got %s", exc.PyType().Name)
	}
}

func TestGetAttributeResolvesFunctionDescriptorToBoundMethod(t *testing.T) {
	typ := newType("Greeter")
	fn := &Function{
		Name: "greet",
		Code: &CodeObject{Name: "greet", Filename: "<test>"},
		Sig:  Signature{Params: []Param{{Name: "self", Kind: Positional}}, Defaults: map[string]Value{}},
	}
	typ.Dict["greet"] = fn

	inst := NewInstance(typ)
	v, exc := GetAttribute(inst, "greet")
	if exc != nil {
		t.Fatalf("GetAttribute returned %v", exc)
	}
	method, ok := v.(*Method)
	if !ok {
		t.Fatalf("expected *Method, got %T", v)
	}
	if method.Receiver != Value(inst) {
		t.Fatalf("bound method receiver = %v, want the instance it was fetched through", method.Receiver)
	}
	if method.Callable != Value(fn) {
		t.Fatalf("bound method callable = %v, want the underlying function", method.Callable)
	}
}

func TestIsSubtypeOf(t *testing.T) {
	grandparent := newType("Grandparent")
	parent := newType("Parent", grandparent)
	child := newType("Child", parent)
	unrelated := newType("Unrelated")

	if !child.IsSubtypeOf(child) {
		t.Error("a type should be a subtype of itself")
	}
	if !child.IsSubtypeOf(parent) {
		t.Error("Child should be a subtype of Parent")
	}
	if !child.IsSubtypeOf(grandparent) {
		t.Error("Child should be a subtype of Grandparent transitively")
	}
	if child.IsSubtypeOf(unrelated) {
		t.Error("Child should not be a subtype of an unrelated type")
	}
}
