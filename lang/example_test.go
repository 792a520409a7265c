package lang_test

import (
	"context"
	"fmt"
	"os"

	"github.com/ardnew/blogmath/lang"
)

func Example() {
	c := lang.NewContext(lang.WithOutput(os.Stdout))

	source := `
		lambda hyp(a, b) = ((a^2) + (b^2)) ^ 0.5;
		var c = hyp(3, 4);
		print(c, 2 * 3 + 4);
	`

	if _, err := lang.Run(context.Background(), source, c); err != nil {
		fmt.Println(err)
	}
	// Output:
	// 5 14
}

func ExampleEvaluate() {
	c := lang.NewContext()

	seq, err := lang.Evaluate(context.Background(), "lambda sq(x) = x * x; sq(3); sq(4);", c)
	if err != nil {
		fmt.Println(err)

		return
	}

	for v, err := range seq {
		if err != nil {
			fmt.Println("error:", err)

			break
		}

		fmt.Println(v)
	}
	// Output:
	// 9
	// 16
}

func ExampleFormatError() {
	source := "var a = 1;\nvar a = 2;"

	_, err := lang.Run(context.Background(), source, lang.NewContext())

	fmt.Print(lang.FormatError(err, source))
	// Output:
	// line 2, column 5: variable "a" already declared
	//   2 | var a = 2;
	//           ^
}

func ExampleProgram_String() {
	prog, err := lang.Parse("lambda f(x)=x*2+1;print(f(3));")
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Print(prog)
	// Output:
	// lambda f(x) = x * 2 + 1;
	// print(f(3));
}

func ExampleWithBuiltin() {
	c := lang.NewContext(
		lang.WithOutput(os.Stdout),
		lang.WithBuiltin(&lang.Builtin{
			Name:   "twice",
			Params: []string{"x"},
			Fn: func(_ *lang.Context, args []float64) (lang.Value, error) {
				return lang.Num(2 * args[0]), nil
			},
		}),
	)

	if _, err := c.Run(context.Background(), "print(twice(21));"); err != nil {
		fmt.Println(err)
	}
	// Output:
	// 42
}
