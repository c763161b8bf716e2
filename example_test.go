package wiring_test

import (
	"fmt"
	"reflect"

	"github.com/Station-Manager/wiring"
)

type Engine interface{ Start() string }

type V8Engine struct{}

func (*V8Engine) Start() string { return "vroom" }

type Wheel struct{}

type Car struct {
	wiring.Singleton
	Engine Engine `di.inject:""`
	Wheel  *Wheel `di.inject:""`
	ready  bool
}

func (c *Car) Initialize() error {
	c.ready = true
	return nil
}

func Example() {
	reg := wiring.NewRegistry()
	wiring.BindType[Engine, *V8Engine](reg)

	injector := wiring.NewInjector(reg)

	car, err := wiring.ResolveAs[*Car](injector)
	if err != nil {
		fmt.Println(err)
		return
	}
	again, _ := wiring.ResolveAs[*Car](injector)

	fmt.Println(car.Engine.Start())
	fmt.Println(car.Wheel != nil, car.ready)
	fmt.Println(car == again)
	// Output:
	// vroom
	// true true
	// true
}

type Pool struct{ Addr string }

func ExampleRegistry_Construct() {
	reg := wiring.NewRegistry()
	_ = reg.RegisterConstructor(func() *Pool { return &Pool{Addr: "localhost:5432"} })
	_ = reg.RegisterConstructor(func(addr string) *Pool { return &Pool{Addr: addr} })

	def, _ := reg.Construct(wiring.TypeOf[*Pool]())
	custom, _ := reg.Construct(wiring.TypeOf[*Pool](), "db:5432")

	fmt.Println(def.(*Pool).Addr)
	fmt.Println(custom.(*Pool).Addr)
	// Output:
	// localhost:5432
	// db:5432
}

func ExampleInjector_InjectDependenciesWith() {
	type Garage struct {
		Main  Engine `di.inject:""`
		Spare Engine `di.inject:""`
	}

	injector := wiring.NewInjector(wiring.NewRegistry())
	garage := &Garage{}
	err := injector.InjectDependenciesWith(garage, map[wiring.FieldID]reflect.Type{
		wiring.Field(wiring.TypeOf[Garage](), "Main"): wiring.TypeOf[*V8Engine](),
	})

	fmt.Println(err, garage.Main.Start(), garage.Spare == nil)
	// Output: <nil> vroom true
}
