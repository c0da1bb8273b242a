package object

// Class is a class object. It is itself callable (constructing an
// instance) and, through its metaclass, behaves as an instance whose
// methods are the class methods — so Math.square(3) dispatches the same
// way adder.add(3) does.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function

	// Meta holds class methods; nil on metaclasses themselves. fields
	// are the class object's own instance-side fields.
	Meta   *Class
	fields map[string]any
}

// NewClass builds a class. meta may be nil (metaclasses have none).
func NewClass(meta *Class, name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{
		Name:       name,
		Superclass: superclass,
		Methods:    methods,
		Meta:       meta,
		fields:     map[string]any{},
	}
}

// FindMethod looks a method up on the class and then up the superclass
// chain.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity of a class call is the arity of its initializer, if any.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Get resolves property access on the class object: its own fields
// first, then class methods via the metaclass, bound to the class.
func (c *Class) Get(name string) (any, bool) {
	if v, ok := c.fields[name]; ok {
		return v, true
	}
	if c.Meta != nil {
		if m := c.Meta.FindMethod(name); m != nil {
			return m.Bind(c), true
		}
	}
	return nil, false
}

// Set writes a field on the class object.
func (c *Class) Set(name string, value any) {
	c.fields[name] = value
}

func (c *Class) String() string {
	return c.Name
}

// Instance is an object: a reference to its class and a mutable field
// map. Fields shadow methods on lookup; assignment always writes a
// field.
type Instance struct {
	class  *Class
	fields map[string]any
}

// NewInstance creates an empty instance of a class.
func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: map[string]any{}}
}

// Class returns the instance's class.
func (i *Instance) Class() *Class {
	return i.class
}

// Get resolves property access: fields first, then methods bound to the
// instance. The second result is false when neither exists.
func (i *Instance) Get(name string) (any, bool) {
	if v, ok := i.fields[name]; ok {
		return v, true
	}
	if m := i.class.FindMethod(name); m != nil {
		return m.Bind(i), true
	}
	return nil, false
}

// Set writes a field.
func (i *Instance) Set(name string, value any) {
	i.fields[name] = value
}

func (i *Instance) String() string {
	return i.class.Name + " instance"
}
