package scripts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlatten(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "exported declarations keep their body",
			in:   "export const a = 1;\nexport function greet() {\n  return a;\n}\nexport class Box {\n}\n",
			want: "const a = 1;\nfunction greet() {\n  return a;\n}\nclass Box {\n}\n",
		},
		{
			name: "imports are dropped",
			in:   "import { greet } from \"./components/a.js\";\nimport \"./side.js\";\nimport {\n  a,\n  b\n} from \"./b.js\";\nconsole.log(greet(a, b));\n",
			want: "console.log(greet(a, b));\n",
		},
		{
			name: "export clauses are dropped",
			in:   "const a = 1;\nexport {\n  a,\n  a as b\n};\nexport { c } from \"./c.js\";\nexport * from \"./d.js\";\n",
			want: "const a = 1;\n",
		},
		{
			name: "named default export stays a declaration",
			in:   "export default function main() {\n}\n",
			want: "function main() {\n}\n",
		},
		{
			name: "anonymous default export is bound",
			in:   "export default class extends Base {\n}\nexport default 42;\n",
			want: "var __default = class extends Base {\n}\nvar __default = 42;\n",
		},
		{
			name: "nested lines and dynamic imports are untouched",
			in:   "function f() {\n  export_data();\n}\nimport(\"./lazy.js\");\n",
			want: "function f() {\n  export_data();\n}\nimport(\"./lazy.js\");\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, flatten(tc.in))
		})
	}
}
