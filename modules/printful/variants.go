package printful

// variantMap - 상품명 → Printful variant ID 고정 테이블
// placement 테이블과 마찬가지로 시작 시 정의, 읽기 전용
// 매핑 없는 상품명은 skip 대상
var variantMap = map[string]int{
	"T-Shirt":    4012,
	"Hoodie":     4644,
	"Mug":        1320,
	"Poster":     1349,
	"Tote Bag":   4533,
	"Phone Case": 4629,
}

// LookupVariant - 상품명으로 variant ID 조회
func LookupVariant(name string) (int, bool) {
	id, ok := variantMap[name]
	return id, ok
}
