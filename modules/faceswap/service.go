package faceswap

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"swapmock-server/modules/common/config"
	"swapmock-server/modules/common/storage"
	"swapmock-server/modules/common/utils"
)

// ErrSwapFailed - 모델이 이미지를 돌려주지 않음
var ErrSwapFailed = errors.New("face swap produced no image")

// 저장 WebP 품질
const resultWebPQuality = 90.0

// swapPrompt - 얼굴 교체 지시 프롬프트
// 얼굴 인식/정렬은 전부 모델에 위임 - 서버는 픽셀 분석을 하지 않음
const swapPrompt = "Replace the face of the person in the first image with the face " +
	"from the second image. Keep the first image's pose, lighting, background and " +
	"body unchanged. Return only the edited image."

// Service - Gemini 이미지 편집으로 swap result 생성
type Service struct {
	genaiClient *genai.Client
	modelName   string

	fetchImage  func(ctx context.Context, url string) ([]byte, error)
	uploadImage func(ctx context.Context, data []byte, contentType, objectPath string) (string, error)
}

// NewService - Service 생성
func NewService() *Service {
	cfg := config.GetConfig()

	ctx := context.Background()
	genaiClient, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		log.Printf("❌ Failed to create Genai client: %v", err)
		return nil
	}

	storageClient := storage.NewClient()

	log.Println("✅ Genai client initialized")
	return &Service{
		genaiClient: genaiClient,
		modelName:   cfg.GeminiModel,
		fetchImage:  storageClient.FetchImage,
		uploadImage: storageClient.UploadImage,
	}
}

// SwapFaces - target/swap 이미지를 받아 결과 이미지를 생성하고 재호스팅
func (s *Service) SwapFaces(ctx context.Context, targetURL, swapURL string) (string, error) {
	targetData, err := s.fetchImage(ctx, targetURL)
	if err != nil {
		return "", fmt.Errorf("target image: %w", err)
	}

	swapData, err := s.fetchImage(ctx, swapURL)
	if err != nil {
		return "", fmt.Errorf("swap image: %w", err)
	}

	// 포맷 감지 겸 디코딩 검증
	_, targetFormat, err := utils.DecodeImage(targetData)
	if err != nil {
		return "", fmt.Errorf("target image: %w", err)
	}
	_, swapFormat, err := utils.DecodeImage(swapData)
	if err != nil {
		return "", fmt.Errorf("swap image: %w", err)
	}

	log.Printf("🎨 Requesting face swap from %s...", s.modelName)

	model := s.genaiClient.GenerativeModel(s.modelName)
	resp, err := model.GenerateContent(ctx,
		genai.ImageData(targetFormat, targetData),
		genai.ImageData(swapFormat, swapData),
		genai.Text(swapPrompt),
	)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	resultData, err := extractImage(resp)
	if err != nil {
		return "", err
	}

	webpData, err := utils.NormalizeToWebP(resultData, resultWebPQuality)
	if err != nil {
		return "", fmt.Errorf("result image: %w", err)
	}

	objectPath := fmt.Sprintf("results/%s.webp", uuid.New().String())
	resultURL, err := s.uploadImage(ctx, webpData, "image/webp", objectPath)
	if err != nil {
		return "", err
	}

	log.Printf("✅ Swap result stored: %s", resultURL)
	return resultURL, nil
}

// extractImage - 응답 후보에서 첫 이미지 part 추출
func extractImage(resp *genai.GenerateContentResponse) ([]byte, error) {
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if blob, ok := part.(genai.Blob); ok && len(blob.Data) > 0 {
				return blob.Data, nil
			}
		}
	}
	return nil, ErrSwapFailed
}
