package stack

// Stack 操作数栈。栈中元素为字节序列，由单个脚本执行流独占。
type Stack struct {
	l [][]byte
}

func New() *Stack {
	return &Stack{l: make([][]byte, 0)}
}

func (s *Stack) Push(v []byte) {
	s.l = append(s.l, v)
}

func (s *Stack) Pop() []byte {
	v := s.l[len(s.l)-1]
	s.l = s.l[:len(s.l)-1]
	return v
}

func (s *Stack) Top() []byte {
	return s.l[len(s.l)-1]
}

func (s *Stack) Empty() bool {
	return s.Len() == 0
}

func (s *Stack) Len() int {
	return len(s.l)
}

func (s *Stack) Has(n int) bool {
	return len(s.l) >= n
}
