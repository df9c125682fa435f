// Package database grava amostras de telemetria decodificadas no MongoDB.
// A gravação é opcional: sem MONGODB_URI no ambiente, todas as funções
// viram no-ops e o aplicativo roda normalmente.
package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB é a nossa conexão global com o banco de dados (nil = gravação desligada).
var DB *mongo.Client

// Sample é uma leitura decodificada com carimbo de tempo.
type Sample struct {
	At    time.Time `bson:"at"`
	Kind  string    `bson:"kind"` // "gears" ou "grade"
	Front string    `bson:"front,omitempty"`
	Rear  string    `bson:"rear,omitempty"`
	Grade string    `bson:"grade,omitempty"`
}

// InitDB inicializa a conexão com o MongoDB quando MONGODB_URI está definida.
func InitDB() *mongo.Client {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		log.Println("[DB] MONGODB_URI não definida; gravação de amostras desligada.")
		return nil
	}

	log.Println("[DB] Conectando ao MongoDB...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Falha ao conectar ao MongoDB: %v", err)
	}

	// Testa a conexão
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("❌ Falha ao pingar MongoDB: %v", err)
	}

	DB = client
	log.Println("✅ Conectado ao MongoDB com sucesso!")
	return DB
}

// SaveGearSample grava uma leitura de marchas. No-op sem conexão.
func SaveGearSample(front, rear string) {
	save(Sample{At: time.Now(), Kind: "gears", Front: front, Rear: rear})
}

// SaveGradeSample grava um rótulo composto de grade/trava. No-op sem conexão.
func SaveGradeSample(grade string) {
	save(Sample{At: time.Now(), Kind: "grade", Grade: grade})
}

func save(s Sample) {
	if DB == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := DB.Database("kickr_gears").Collection("samples").InsertOne(ctx, s); err != nil {
		log.Printf("[DB] Erro ao gravar amostra: %v", err)
	}
}
