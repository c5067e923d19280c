package mockup

// Placement - base 이미지 좌표계 기준 합성 영역 (픽셀 단위)
type Placement struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// placements - 상품명 → 합성 영역 고정 테이블
// 프로세스 시작 시 정의, 읽기 전용
var placements = map[string]Placement{
	"T-Shirt":    {Left: 200, Top: 170, Width: 400, Height: 400},
	"Hoodie":     {Left: 220, Top: 230, Width: 360, Height: 360},
	"Mug":        {Left: 260, Top: 180, Width: 280, Height: 280},
	"Poster":     {Left: 90, Top: 90, Width: 620, Height: 820},
	"Tote Bag":   {Left: 210, Top: 260, Width: 380, Height: 380},
	"Phone Case": {Left: 170, Top: 200, Width: 260, Height: 460},
}

// LookupPlacement - 상품명으로 placement 조회
// 모르는 상품명은 skip 대상 (에러 아님)
func LookupPlacement(name string) (Placement, bool) {
	p, ok := placements[name]
	return p, ok
}
